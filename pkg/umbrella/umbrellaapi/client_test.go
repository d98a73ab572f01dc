package umbrellaapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"riskblock/pkg/domain"
	"riskblock/pkg/serrors"
	"riskblock/pkg/umbrella"
	"riskblock/pkg/umbrella/umbrellaapi"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *umbrellaapi.Client {
	return umbrellaapi.New(&http.Client{Transport: fn}, "", "test-token")
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestAuthenticator_Token_success(t *testing.T) {
	exp := time.Unix(1893456000, 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	a := umbrellaapi.NewAuthenticator(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "api.umbrella.com", r.URL.Host)
		require.Equal(t, "/auth/v2/token", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key", user)
		require.Equal(t, "secret", pass)

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "grant_type=client_credentials", string(b))

		return jsonResponse(http.StatusOK,
			`{"access_token":"`+signed+`","token_type":"bearer","expires_in":3600}`), nil
	})}, "", "key", "secret")

	tok, err := a.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, signed, tok.AccessToken)
	require.Equal(t, "bearer", tok.TokenType)
	require.True(t, tok.ExpiresAt.Equal(exp))
}

func TestAuthenticator_Token_unauthorized(t *testing.T) {
	a := umbrellaapi.NewAuthenticator(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":"invalid_client"}`), nil
	})}, "https://umbrella.test/", "key", "bad")

	_, err := a.Token(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
	require.Contains(t, err.Error(), "invalid_client")
}

func TestAuthenticator_Token_missingAccessToken(t *testing.T) {
	a := umbrellaapi.NewAuthenticator(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"token_type":"bearer"}`), nil
	})}, "", "key", "secret")

	_, err := a.Token(context.Background())
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestTokenExpiry_opaqueTokenUsesExpiresIn(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.True(t, umbrellaapi.TokenExpiry("opaque", 60, now).Equal(now.Add(time.Minute)))
	require.True(t, umbrellaapi.TokenExpiry("opaque", 0, now).IsZero())
}

func TestClient_Applications_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/reports/v2/appDiscovery/applications", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "100", r.URL.Query().Get("limit"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		return jsonResponse(http.StatusOK, `{"items":[
			{"id":1,"name":"Dropbox","weightedRisk":"high","extra":{"url":"https://dropbox.com"}},
			{"id":"2","name":"Slack","weightedRisk":"low"}
		],"totalPages":3}`), nil
	})

	page, err := c.Applications(context.Background(), 2, 100)
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	require.Equal(t, domain.AppID("1"), page.Items[0].ID)
	require.True(t, page.Items[0].HasRisk("HIGH"))
	require.Contains(t, string(page.Items[0].Raw), "dropbox.com")
	require.Equal(t, domain.AppID("2"), page.Items[1].ID)
}

func TestClient_Applications_totalPagesDefaultsToOne(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"items":[]}`), nil
	})

	page, err := c.Applications(context.Background(), 1, 100)
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalPages)
	require.Empty(t, page.Items)
}

func TestClient_Applications_serverError(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `maintenance`), nil
	})

	_, err := c.Applications(context.Background(), 1, 100)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestClient_ApplicationDetails(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/reports/v2/appDiscovery/applications/42", r.URL.Path)

		return jsonResponse(http.StatusOK, `{"id":42,"website":"https://example.com"}`), nil
	})

	b, err := c.ApplicationDetails(context.Background(), "42")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":42,"website":"https://example.com"}`, string(b))

	_, err = c.ApplicationDetails(context.Background(), "")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestClient_DestinationLists_paginates(t *testing.T) {
	calls := 0
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		require.Equal(t, "/policies/v2/destinationlists", r.URL.Path)

		if r.URL.Query().Get("page") == "1" {
			items := make([]string, 100)
			for i := range items {
				items[i] = `{"id":1,"name":"list"}`
			}

			return jsonResponse(http.StatusOK, `{"data":[`+strings.Join(items, ",")+`]}`), nil
		}

		return jsonResponse(http.StatusOK, `{"data":[{"id":7,"name":"High Risk Apps URLs","access":"block"}]}`), nil
	})

	lists, err := c.DestinationLists(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Len(t, lists, 101)
	require.Equal(t, domain.DestinationListID(7), lists[100].ID)
	require.Equal(t, "High Risk Apps URLs", lists[100].Name)
}

func TestClient_DestinationList_count(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/policies/v2/destinationlists/15", r.URL.Path)

		return jsonResponse(http.StatusOK, `{"status":{"code":200},"data":{"id":15,"name":"x","meta":{"destinationCount":12}}}`), nil
	})

	l, err := c.DestinationList(context.Background(), 15)
	require.NoError(t, err)
	require.Equal(t, 12, l.Meta.DestinationCount)
}

func TestClient_DestinationList_notFound(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"not found"}`), nil
	})

	_, err := c.DestinationList(context.Background(), 15)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestClient_CreateDestinationList_body(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"name":"High Risk Apps URLs","access":"block","isGlobal":false,"bundleTypeId":1,"destinations":[]}`,
			string(b))

		return jsonResponse(http.StatusOK, `{"data":{"id":99,"name":"High Risk Apps URLs","access":"block"}}`), nil
	})

	l, err := c.CreateDestinationList(context.Background(), umbrella.CreateListReq{
		Name:         "High Risk Apps URLs",
		Access:       "block",
		BundleTypeID: 1,
	})
	require.NoError(t, err)
	require.Equal(t, domain.DestinationListID(99), l.ID)
}

func TestClient_AddDestinations_postsArray(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/policies/v2/destinationlists/5/destinations", r.URL.Path)

		var got []domain.Destination
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, []domain.Destination{
			{Destination: "example.com", Type: domain.DestinationTypeDomain, Comment: "c"},
		}, got)

		return jsonResponse(http.StatusOK, `{"status":{"code":200},"data":{"meta":{"destinationCount":1}}}`), nil
	})

	res, err := c.AddDestinations(context.Background(), 5, []domain.Destination{
		{Destination: "example.com", Type: domain.DestinationTypeDomain, Comment: "c"},
	})
	require.NoError(t, err)
	require.Equal(t, umbrella.ShapeStatus, res.Shape)
	require.True(t, res.HasDestinationCount)
	require.Equal(t, 1, res.DestinationCount)
}

func TestClient_AddDestinations_httpErrorKeepsBody(t *testing.T) {
	c := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"message":"cannot add high-volume domain google.com"}`), nil
	})

	_, err := c.AddDestinations(context.Background(), 5, nil)
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Contains(t, err.Error(), "high-volume domain")
}

func TestDecodeAddDestinations_shapes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		shape umbrella.ResponseShape
	}{
		{"embedded 400", `{"statusCode":400,"message":"{\"a.com\":\"bad\"}"}`, umbrella.ShapeEmbeddedError},
		{"embedded 400 wins over status", `{"statusCode":400,"status":{"code":200}}`, umbrella.ShapeEmbeddedError},
		{"status 200", `{"status":{"code":200},"data":{}}`, umbrella.ShapeStatus},
		{"data list", `{"data":[{"destination":"a.com","type":"domain"}]}`, umbrella.ShapeDataList},
		{"other statusCode", `{"statusCode":500}`, umbrella.ShapeUnknown},
		{"empty object", `{}`, umbrella.ShapeUnknown},
		{"not json", `ok`, umbrella.ShapeUnknown},
		{"truncated", `{"statusCode":400`, umbrella.ShapeUnknown},
		{"null statusCode", `{"statusCode":null}`, umbrella.ShapeUnknown},
		{"mistyped status beside embedded 400", `{"statusCode":400,"message":"bad","status":"error"}`, umbrella.ShapeEmbeddedError},
		{"mistyped message beside data list", `{"message":7,"data":[{"destination":"a.com","type":"domain"}]}`, umbrella.ShapeDataList},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := umbrellaapi.DecodeAddDestinations([]byte(tc.body))
			require.Equal(t, tc.shape, res.Shape)
			require.Equal(t, tc.body, string(res.Body))
		})
	}
}

func TestDecodeAddDestinations_fields(t *testing.T) {
	res := umbrellaapi.DecodeAddDestinations([]byte(`{"statusCode":400,"message":"boom"}`))
	require.True(t, res.HasStatusCode)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, "boom", res.Message)

	res = umbrellaapi.DecodeAddDestinations([]byte(`{"data":[{"destination":"a.com","type":"domain"},{"destination":"b.com","type":"domain"}]}`))
	require.True(t, res.HasItems)
	require.Len(t, res.Items, 2)
	require.False(t, res.HasDestinationCount)
}

func TestDecodeAddDestinations_mistypedSiblingKeepsFields(t *testing.T) {
	res := umbrellaapi.DecodeAddDestinations(
		[]byte(`{"status":"error","statusCode":400,"message":"google.com: high-volume domain"}`))
	require.Equal(t, umbrella.ShapeEmbeddedError, res.Shape)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, "google.com: high-volume domain", res.Message)
	require.False(t, res.HasStatusBlock)
}
