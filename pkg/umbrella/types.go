package umbrella

import (
	"riskblock/pkg/domain"
	"time"
)

// Token is an OAuth2 bearer token.
type Token struct {
	AccessToken string
	TokenType   string
	// ExpiresAt comes from the token's exp claim or, failing that, expires_in.
	ExpiresAt time.Time
}

// ApplicationsPage is one page of the App Discovery application listing.
type ApplicationsPage struct {
	Items []domain.Application
	// TotalPages as reported by the API; 1 when the field is absent.
	TotalPages int
}

// CreateListReq describes a destination list to create.
type CreateListReq struct {
	Name         string `json:"name"`
	Access       string `json:"access"`
	IsGlobal     bool   `json:"isGlobal"`
	BundleTypeID int    `json:"bundleTypeId"`
	// Destinations is always sent, empty by default.
	Destinations []domain.Destination `json:"destinations"`
}

// ResponseShape names the body layouts the add-destinations endpoint is
// known to return with HTTP 200.
type ResponseShape string

const (
	// ShapeEmbeddedError is {"statusCode": 4xx, "message": "..."} inside a 200.
	ShapeEmbeddedError ResponseShape = "embedded-error"
	// ShapeStatus is {"status": {"code": 200}, "data": {... "meta": {...}}}.
	ShapeStatus ResponseShape = "status"
	// ShapeDataList is {"data": [ ...accepted destinations... ]}.
	ShapeDataList ResponseShape = "data-list"
	// ShapeUnknown is any other body.
	ShapeUnknown ResponseShape = "unknown"
)

// AddDestinationsRes is the decoded 200 body of an add-destinations call.
// Fields that were absent in the body keep their zero values; the Has*
// flags tell absence apart from zero.
type AddDestinationsRes struct {
	Shape ResponseShape

	// StatusCode and Message are set for ShapeEmbeddedError (and whenever a
	// top-level statusCode is present).
	HasStatusCode bool
	StatusCode    int
	Message       string

	// StatusBlockCode is status.code when a status object is present.
	HasStatusBlock  bool
	StatusBlockCode int

	// DestinationCount is data.meta.destinationCount when data is an object.
	HasDestinationCount bool
	DestinationCount    int

	// Items holds data when it is an array.
	HasItems bool
	Items    []domain.Destination

	// Body is the raw response body, kept for logging.
	Body []byte
}
