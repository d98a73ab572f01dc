package umbrellaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"riskblock/pkg/domain"
	"riskblock/pkg/serrors"
	"riskblock/pkg/umbrella"
	"strconv"
)

var _ umbrella.AppDiscovery = (*Client)(nil)

// Applications returns one page of the App Discovery application listing.
func (c *Client) Applications(ctx context.Context, page, limit int) (umbrella.ApplicationsPage, error) {
	query := url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
	b, err := c.do(ctx, http.MethodGet, appDiscoveryPath, query, nil)
	if err != nil {
		return umbrella.ApplicationsPage{}, err
	}

	var res struct {
		Items      []domain.Application `json:"items"`
		TotalPages *int                 `json:"totalPages"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return umbrella.ApplicationsPage{}, fmt.Errorf("could not decode response: %w", err)
	}

	out := umbrella.ApplicationsPage{Items: res.Items, TotalPages: 1}
	if res.TotalPages != nil {
		out.TotalPages = *res.TotalPages
	}

	return out, nil
}

// ApplicationDetails returns the detail record of a single application as
// raw JSON so every attribute can be searched for URLs.
func (c *Client) ApplicationDetails(ctx context.Context, appID domain.AppID) ([]byte, error) {
	if appID == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "application id is required")
	}

	b, err := c.do(ctx, http.MethodGet, appDiscoveryPath+"/"+url.PathEscape(string(appID)), nil, nil)
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, serrors.With(serrors.ErrInternal, "application %s details are not valid JSON", appID)
	}

	return b, nil
}
