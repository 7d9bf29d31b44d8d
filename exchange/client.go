package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/axent-pl/svcauth/assertion"
	"github.com/axent-pl/svcauth/common"
	"github.com/axent-pl/svcauth/credential"
	"github.com/axent-pl/svcauth/logx"
)

// Grant type for exchanging a signed assertion per RFC 7523 section 2.1.
const GrantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"

const maxResponseBytes = 1 << 20

// TokenClient posts JWT-bearer grant requests to a token endpoint.
// The zero value is usable; it falls back to a pooled default client.
// Retry and backoff are caller concerns, a rejection here is definitive.
type TokenClient struct {
	HTTPClient *http.Client

	// Scopes requested with each grant, space-joined per OAuth2.
	// Omitted from the request form when empty.
	Scopes []string
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Exchange posts the signed assertion to the token endpoint and returns the
// granted token. A non-2xx status wraps common.ErrAuthenticationFailed with
// the status code and response body; a 2xx response without an access_token
// wraps common.ErrMalformedResponse.
func (c *TokenClient) Exchange(ctx context.Context, endpointURL, signedAssertion string) (TokenResponse, error) {
	if endpointURL == "" {
		return TokenResponse{}, fmt.Errorf("%w: endpointURL is required", common.ErrInvalidArgument)
	}
	if signedAssertion == "" {
		return TokenResponse{}, fmt.Errorf("%w: signedAssertion is required", common.ErrInvalidArgument)
	}

	form := url.Values{}
	form.Set("grant_type", GrantTypeJWTBearer)
	form.Set("assertion", signedAssertion)
	if scope := strings.Join(c.Scopes, " "); scope != "" {
		form.Set("scope", scope)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultPooledClient()
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("could not call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("could not read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logx.L().Debug("token endpoint rejected assertion", "context", ctx, "status", resp.StatusCode)
		return TokenResponse{}, fmt.Errorf("%w: status %d: %s", common.ErrAuthenticationFailed, resp.StatusCode, string(body))
	}

	var tokenResponse TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if tokenResponse.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("%w: missing access_token", common.ErrMalformedResponse)
	}

	return tokenResponse, nil
}

// Authorize runs the full service-account flow: sign a fresh assertion with
// the token endpoint as its audience, then exchange it for an access token.
func (c *TokenClient) Authorize(ctx context.Context, creds credential.ServiceAccountCredentials, endpointURL string, opts ...assertion.Option) (TokenResponse, error) {
	var signer assertion.Signer
	signedAssertion, err := signer.Sign(ctx, creds, endpointURL, opts...)
	if err != nil {
		return TokenResponse{}, err
	}
	return c.Exchange(ctx, endpointURL, signedAssertion)
}
