// Package umbrellaapi implements the umbrella interfaces against the Cisco
// Umbrella REST API (https://developer.cisco.com/docs/cloud-security/).
package umbrellaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"riskblock/pkg/serrors"
	"riskblock/pkg/umbrella"
	"strings"
)

// DefaultBaseURL is the public Umbrella API endpoint.
const DefaultBaseURL = "https://api.umbrella.com"

const (
	appDiscoveryPath     = "/reports/v2/appDiscovery/applications"
	destinationListsPath = "/policies/v2/destinationlists"
)

// Client talks to the App Discovery and destination list APIs with a bearer
// token obtained beforehand from an Authenticator. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Ensure Client conforms to the umbrella interfaces at compile time.
var (
	_ umbrella.AppDiscovery = (*Client)(nil)
	_ umbrella.Policies     = (*Client)(nil)
)

// New constructs a Client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *http.Client, baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// do sends an authenticated request and returns the response body. Non-2xx
// statuses are turned into semantic errors that include the body, since the
// API explains refusals (such as high-volume domains) only in the text.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if kind := serrors.FromStatus(resp.StatusCode); kind != nil {
		return b, serrors.With(kind, "%s %s failed with status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return b, nil
}
