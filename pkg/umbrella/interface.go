// Package umbrella defines the contracts of the Cisco Umbrella APIs used by
// this tool: the OAuth2 token endpoint, App Discovery reports and the
// destination list policies API. Implementations live in sub-packages.
package umbrella

import (
	"context"
	"riskblock/pkg/domain"
)

// TokenSource exchanges client credentials for a bearer token.
//
//go:generate mockgen -package mockumbrella -source=interface.go -destination=mock/mockumbrella.go *
type TokenSource interface {
	// Token performs the client-credentials exchange.
	Token(ctx context.Context) (Token, error)
}

// AppDiscovery reads application reports.
type AppDiscovery interface {
	// Applications returns one page of discovered applications.
	Applications(ctx context.Context, page, limit int) (ApplicationsPage, error)
	// ApplicationDetails returns the raw detail record of an application.
	ApplicationDetails(ctx context.Context, appID domain.AppID) ([]byte, error)
}

// Policies manages destination lists.
type Policies interface {
	// DestinationLists returns every destination list of the organization.
	DestinationLists(ctx context.Context) ([]domain.DestinationList, error)
	// DestinationList returns a single list including its destination count.
	DestinationList(ctx context.Context, id domain.DestinationListID) (*domain.DestinationList, error)
	// CreateDestinationList creates an empty list.
	CreateDestinationList(ctx context.Context, req CreateListReq) (*domain.DestinationList, error)
	// AddDestinations submits destinations to a list in a single request.
	// A 2xx response is returned as-is for the caller to interpret; non-2xx
	// responses and transport failures are returned as errors.
	AddDestinations(ctx context.Context,
		id domain.DestinationListID,
		destinations []domain.Destination) (*AddDestinationsRes, error)
}
