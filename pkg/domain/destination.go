package domain

import "riskblock/pkg/validate"

// DestinationType is the kind of entry stored in a destination list.
type DestinationType string

const (
	// DestinationTypeDomain is a bare domain such as "example.com".
	DestinationTypeDomain DestinationType = "domain"
	// DestinationTypeURL is a full URL with a path.
	DestinationTypeURL DestinationType = "url"
)

// Destination is a single entry submitted to a destination list.
type Destination struct {
	Destination string          `json:"destination" validate:"required"`
	Type        DestinationType `json:"type"        validate:"oneof=domain url"`
	Comment     string          `json:"comment,omitempty"`
}

// Validate checks that the destination is non-empty and is either a domain
// or a URL.
func (d Destination) Validate() error {
	return validate.Struct(d) //nolint: wrapcheck
}

// DestinationListID identifies a destination list.
type DestinationListID int64

// DestinationList is a named policy object holding destinations to allow or block.
type DestinationList struct {
	ID           DestinationListID `json:"id"`
	Name         string            `json:"name"`
	Access       string            `json:"access"`
	IsGlobal     bool              `json:"isGlobal"`
	BundleTypeID int               `json:"bundleTypeId,omitempty"`
	Meta         struct {
		DestinationCount int `json:"destinationCount"`
	} `json:"meta"`
}
