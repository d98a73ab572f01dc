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

	"github.com/go-faster/jx"
)

var _ umbrella.Policies = (*Client)(nil)

// listsPageLimit is the page size used when enumerating destination lists.
const listsPageLimit = 100

// DestinationLists returns every destination list, following pages until a
// short page is returned.
func (c *Client) DestinationLists(ctx context.Context) ([]domain.DestinationList, error) {
	var lists []domain.DestinationList
	for page := 1; ; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(listsPageLimit)},
		}
		b, err := c.do(ctx, http.MethodGet, destinationListsPath, query, nil)
		if err != nil {
			return nil, err
		}

		var res struct {
			Data []domain.DestinationList `json:"data"`
		}
		if err := json.Unmarshal(b, &res); err != nil {
			return nil, fmt.Errorf("could not decode response: %w", err)
		}

		lists = append(lists, res.Data...)
		if len(res.Data) < listsPageLimit {
			return lists, nil
		}
	}
}

// DestinationList returns a single list, including meta.destinationCount.
func (c *Client) DestinationList(ctx context.Context, id domain.DestinationListID) (*domain.DestinationList, error) {
	b, err := c.do(ctx, http.MethodGet, listPath(id), nil, nil)
	if err != nil {
		return nil, err
	}

	return decodeList(b)
}

// CreateDestinationList creates a list and returns it as stored by the API.
func (c *Client) CreateDestinationList(ctx context.Context,
	req umbrella.CreateListReq,
) (*domain.DestinationList, error) {
	if req.Destinations == nil {
		req.Destinations = []domain.Destination{}
	}

	b, err := c.do(ctx, http.MethodPost, destinationListsPath, nil, req)
	if err != nil {
		return nil, err
	}

	return decodeList(b)
}

// AddDestinations posts destinations as a JSON array. The API signals
// per-destination refusals inside 200 responses, so the body is decoded
// into AddDestinationsRes for the caller to interpret.
func (c *Client) AddDestinations(ctx context.Context,
	id domain.DestinationListID,
	destinations []domain.Destination,
) (*umbrella.AddDestinationsRes, error) {
	if destinations == nil {
		destinations = []domain.Destination{}
	}

	b, err := c.do(ctx, http.MethodPost, listPath(id)+"/destinations", nil, destinations)
	if err != nil {
		return nil, err
	}

	return DecodeAddDestinations(b), nil
}

// DecodeAddDestinations classifies an add-destinations body. The shapes are
// checked in order: an embedded 400 statusCode, a status block with code
// 200, a data array, then anything else. Top-level fields are decoded one by
// one, so a field of an unexpected type is ignored without hiding the
// others. Bodies that are not JSON objects are reported as ShapeUnknown.
func DecodeAddDestinations(b []byte) *umbrella.AddDestinationsRes {
	res := &umbrella.AddDestinationsRes{Shape: umbrella.ShapeUnknown, Body: b}

	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return res
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		decodeAddField(res, string(key), raw)

		return nil
	}); err != nil {
		return &umbrella.AddDestinationsRes{Shape: umbrella.ShapeUnknown, Body: b}
	}

	switch {
	case res.HasStatusCode && res.StatusCode == http.StatusBadRequest:
		res.Shape = umbrella.ShapeEmbeddedError
	case res.HasStatusBlock && res.StatusBlockCode == http.StatusOK:
		res.Shape = umbrella.ShapeStatus
	case res.HasItems:
		res.Shape = umbrella.ShapeDataList
	}

	return res
}

func decodeAddField(res *umbrella.AddDestinationsRes, key string, raw jx.Raw) {
	switch key {
	case "statusCode":
		var code int
		if err := json.Unmarshal(raw, &code); err == nil && raw.Type() == jx.Number {
			res.HasStatusCode = true
			res.StatusCode = code
		}
	case "message":
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil {
			res.Message = msg
		}
	case "status":
		var status struct {
			Code *int `json:"code"`
		}
		if err := json.Unmarshal(raw, &status); err == nil && status.Code != nil {
			res.HasStatusBlock = true
			res.StatusBlockCode = *status.Code
		}
	case "data":
		switch raw.Type() {
		case jx.Array:
			var items []domain.Destination
			if err := json.Unmarshal(raw, &items); err == nil {
				res.HasItems = true
				res.Items = items
			}
		case jx.Object:
			var data struct {
				Meta *struct {
					DestinationCount *int `json:"destinationCount"`
				} `json:"meta"`
			}
			if err := json.Unmarshal(raw, &data); err == nil &&
				data.Meta != nil && data.Meta.DestinationCount != nil {
				res.HasDestinationCount = true
				res.DestinationCount = *data.Meta.DestinationCount
			}
		default:
		}
	}
}

func listPath(id domain.DestinationListID) string {
	return destinationListsPath + "/" + strconv.FormatInt(int64(id), 10)
}

// decodeList reads the {"data": {...}} envelope used by single-list responses.
func decodeList(b []byte) (*domain.DestinationList, error) {
	var res struct {
		Data *domain.DestinationList `json:"data"`
	}
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if res.Data == nil {
		return nil, serrors.With(serrors.ErrInternal, "response has no data object")
	}

	return res.Data, nil
}
