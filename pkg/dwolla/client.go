/**
 * @description
 * This package provides a client for the Dwolla API. It owns the OAuth
 * client-credentials token lifecycle and relays authenticated HAL requests,
 * decoding provider failures into the shared error taxonomy.
 *
 * Key features:
 * - Lazy token refresh: every outbound call first checks the held token and
 *   re-requests it when it is within 60 seconds of expiry.
 * - Location follow-up: Dwolla answers creation POSTs with an empty body and
 *   a Location header; PostFollow issues the follow-up GET automatically.
 * - Uniform errors: non-2xx responses become domain.ProviderError with the
 *   provider's code/message and embedded sub-error list.
 *
 * @dependencies
 * - net/http, encoding/json and friends: Standard Go libraries.
 * - internal/domain for the wire models and error types.
 */
package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

// tokenSafetyMargin is subtracted from a token's lifetime before it is
// considered usable, so a request never departs with a token about to lapse.
const tokenSafetyMargin = 60 * time.Second

const halMediaType = "application/vnd.dwolla.v1.hal+json"

// token is the held OAuth bearer token. It is recomputed, never mutated.
type token struct {
	accessToken string
	expiresIn   time.Duration
	issuedAt    time.Time
}

// usable reports whether the token is still safe to attach to a request.
func (t *token) usable(now time.Time) bool {
	if t == nil {
		return false
	}
	return now.Before(t.issuedAt.Add(t.expiresIn - tokenSafetyMargin))
}

// tokenResponse is Dwolla's answer to the client-credentials grant.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenStatus is the credential/token snapshot reported by /config/status.
type TokenStatus struct {
	IsConfigured       bool   `json:"isConfigured"`
	HasToken           bool   `json:"hasToken"`
	TokenStatus        string `json:"tokenStatus"`
	RemainingTokenTime int64  `json:"remainingTokenTime"`
}

// Client is an authenticated Dwolla API client.
type Client struct {
	baseURL    string
	tokenURL   string
	httpClient *http.Client

	// now is swappable for tests.
	now func() time.Time

	mu     sync.Mutex
	key    string
	secret string
	token  *token
}

// NewClient creates a new Dwolla client for the given API base and token
// endpoints. Credentials are supplied later via SetCredentials.
func NewClient(baseURL, tokenURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenURL: tokenURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetCredentials replaces the held key/secret, discards any previous token
// and immediately requests a fresh one so bad credentials are reported at
// configuration time. It returns the new token's lifetime in seconds.
func (c *Client) SetCredentials(ctx context.Context, key, secret string) (int64, error) {
	c.mu.Lock()
	c.key = key
	c.secret = secret
	c.token = nil
	c.mu.Unlock()

	tok, err := c.validToken(ctx)
	if err != nil {
		return 0, err
	}
	return int64(tok.expiresIn / time.Second), nil
}

// Configured reports whether credentials have been supplied.
func (c *Client) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key != "" && c.secret != ""
}

// Status returns the current credential and token state without triggering
// a refresh.
func (c *Client) Status() TokenStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := TokenStatus{
		IsConfigured: c.key != "" && c.secret != "",
		TokenStatus:  "none",
	}
	if c.token == nil {
		return st
	}
	st.HasToken = true
	remaining := c.token.issuedAt.Add(c.token.expiresIn).Sub(c.now())
	if remaining < 0 {
		remaining = 0
	}
	st.RemainingTokenTime = int64(remaining / time.Second)
	if c.token.usable(c.now()) {
		st.TokenStatus = "valid"
	} else {
		st.TokenStatus = "expired"
	}
	return st
}

// validToken returns the held token, refreshing it first when it is missing
// or inside the safety margin. Refresh failures with a 4xx from the token
// endpoint surface as AuthenticationError; callers must not retry those.
func (c *Client) validToken(ctx context.Context) (*token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key == "" || c.secret == "" {
		return nil, domain.ErrNotConfigured
	}
	if c.token.usable(c.now()) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=dwolla msg=\"token grant rejected\" status=%d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &domain.AuthenticationError{Message: "Dwolla rejected the configured credentials"}
		}
		return nil, &domain.ProviderError{HTTPStatus: resp.StatusCode, Message: "token endpoint unavailable"}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	c.token = &token{
		accessToken: tr.AccessToken,
		expiresIn:   time.Duration(tr.ExpiresIn) * time.Second,
		issuedAt:    c.now(),
	}
	return c.token, nil
}

// Get fetches a resource into target. pathOrURL may be a path relative to
// the API base or an absolute URL returned in a hypermedia link.
func (c *Client) Get(ctx context.Context, pathOrURL string, target any) error {
	_, err := c.do(ctx, http.MethodGet, c.resolve(pathOrURL), nil, target)
	return err
}

// Post sends body and decodes any response body into target. It returns the
// Location header, which Dwolla uses to identify created resources.
func (c *Client) Post(ctx context.Context, pathOrURL string, body, target any) (string, error) {
	headers, err := c.do(ctx, http.MethodPost, c.resolve(pathOrURL), body, target)
	if err != nil {
		return "", err
	}
	return headers.Get("Location"), nil
}

// PostFollow sends a creation POST and follows the Location header with a
// GET, decoding the created resource into target.
func (c *Client) PostFollow(ctx context.Context, pathOrURL string, body, target any) error {
	location, err := c.Post(ctx, pathOrURL, body, nil)
	if err != nil {
		return err
	}
	if location == "" {
		return &domain.MappingError{Message: "provider response missing Location header"}
	}
	return c.Get(ctx, location, target)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, pathOrURL string) error {
	_, err := c.do(ctx, http.MethodDelete, c.resolve(pathOrURL), nil, nil)
	return err
}

// resolve turns a relative API path into an absolute URL, passing absolute
// hypermedia URLs through untouched.
func (c *Client) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.baseURL + "/" + strings.TrimLeft(pathOrURL, "/")
}

// do is the forwarding helper behind every API call. It obtains a valid
// token, issues the request and decodes failures into domain.ProviderError.
// There are no retries: a failed call is reported to the caller as-is.
func (c *Client) do(ctx context.Context, method, rawURL string, body, target any) (http.Header, error) {
	tok, err := c.validToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", halMediaType)
	req.Header.Set("Authorization", "Bearer "+tok.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", halMediaType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{HTTPStatus: http.StatusBadGateway, Message: fmt.Sprintf("request to Dwolla failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=dwolla msg=\"provider returned error\" method=%s url=%s status=%d", method, rawURL, resp.StatusCode)
		return nil, decodeProviderError(resp.StatusCode, respBody)
	}

	if target != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, target); err != nil {
			return nil, fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}
	return resp.Header, nil
}

// providerErrorBody is Dwolla's structured error response.
type providerErrorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Embedded struct {
		Errors []domain.ProviderSubError `json:"errors"`
	} `json:"_embedded"`
}

// decodeProviderError reshapes a non-2xx response body into the uniform
// provider-error type. Unknown bodies degrade to the raw status.
func decodeProviderError(status int, body []byte) *domain.ProviderError {
	perr := &domain.ProviderError{HTTPStatus: status}
	var decoded providerErrorBody
	if err := json.Unmarshal(body, &decoded); err == nil {
		perr.Code = decoded.Code
		perr.Message = decoded.Message
		perr.Errors = decoded.Embedded.Errors
	}
	if perr.Message == "" {
		perr.Message = fmt.Sprintf("Dwolla request failed with status %d", status)
	}
	return perr
}
