package umbrellaapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"riskblock/pkg/serrors"
	"riskblock/pkg/umbrella"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenPath = "/auth/v2/token"

// Authenticator obtains bearer tokens with the OAuth2 client-credentials
// grant. Each API key pair is scoped to a set of APIs, so App Discovery and
// Policies use separate Authenticators.
type Authenticator struct {
	httpClient *http.Client
	baseURL    string
	key        string
	secret     string
}

var _ umbrella.TokenSource = (*Authenticator)(nil)

// NewAuthenticator constructs an Authenticator. An empty baseURL selects DefaultBaseURL.
func NewAuthenticator(httpClient *http.Client, baseURL, key, secret string) *Authenticator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Authenticator{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		key:        key,
		secret:     secret,
	}
}

// Token performs the client-credentials exchange.
func (a *Authenticator) Token(ctx context.Context) (umbrella.Token, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx,
		http.MethodPost,
		a.baseURL+tokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return umbrella.Token{}, fmt.Errorf("could not create request: %w", err)
	}
	req.SetBasicAuth(a.key, a.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return umbrella.Token{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return umbrella.Token{}, fmt.Errorf("could not read response body: %w", err)
	}
	if kind := serrors.FromStatus(resp.StatusCode); kind != nil {
		return umbrella.Token{}, serrors.With(kind, "token request failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(b, &tr); err != nil {
		return umbrella.Token{}, fmt.Errorf("could not decode response: %w", err)
	}
	if tr.AccessToken == "" {
		return umbrella.Token{}, serrors.With(serrors.ErrUnauthorized, "token response has no access_token")
	}

	return umbrella.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
		ExpiresAt:   TokenExpiry(tr.AccessToken, tr.ExpiresIn, time.Now()),
	}, nil
}

// TokenExpiry returns when the token stops being valid. Umbrella issues JWTs,
// so the exp claim is read without verifying the signature (we are the
// bearer, not the audience). Opaque tokens fall back to expiresIn seconds
// from now; zero is returned when neither is known.
func TokenExpiry(token string, expiresIn int, now time.Time) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}

	return time.Time{}
}
