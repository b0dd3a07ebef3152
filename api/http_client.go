// api/http_client.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// QueryParam is a single name/value pair; order is preserved on the wire.
type QueryParam struct {
	Name  string
	Value string
}

// ComponentsBuilder turns a resolved URL into the URL that will be sent.
// Returning nil means the URL could not be assembled.
type ComponentsBuilder func(u *url.URL) *url.URL

// HTTPClient struct to hold base URL, credentials and HTTP client configuration
type HTTPClient struct {
	HTTPClient        *http.Client
	TokenHeader       string
	ComponentsBuilder ComponentsBuilder

	mu       sync.RWMutex
	baseURL  string
	apiToken string
}

// NewHTTPClient creates a new instance of HTTPClient with default settings.
// An empty apiToken disables the auth header.
func NewHTTPClient(baseURL, apiToken, tokenHeader string) *HTTPClient {
	return &HTTPClient{
		HTTPClient:        &http.Client{},
		TokenHeader:       tokenHeader,
		ComponentsBuilder: copyComponents,
		baseURL:           baseURL,
		apiToken:          apiToken,
	}
}

func copyComponents(u *url.URL) *url.URL {
	c := *u
	return &c
}

// SetCredentials replaces the base URL and auth token used for new requests.
func (c *HTTPClient) SetCredentials(baseURL, apiToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = baseURL
	c.apiToken = apiToken
}

// Credentials returns the current base URL and auth token.
func (c *HTTPClient) Credentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL, c.apiToken
}

// BuildRequest resolves path against the base URL, appends the query
// parameters in order and sets the auth header when a token is configured.
func (c *HTTPClient) BuildRequest(ctx context.Context, path string, params []QueryParam) (*http.Request, error) {
	baseURL, apiToken := c.Credentials()
	if strings.TrimSpace(baseURL) == "" {
		return nil, &InvalidRequestError{Reason: "no base url configured"}
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "malformed base url", Err: err}
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "malformed path " + path, Err: err}
	}
	if ref.Scheme != "" || ref.Host != "" || ref.RawQuery != "" || ref.Fragment != "" {
		return nil, &InvalidRequestError{Reason: "path " + path + " cannot be resolved against base url"}
	}

	builder := c.ComponentsBuilder
	if builder == nil {
		builder = copyComponents
	}
	u := builder(base.JoinPath(ref.Path))
	if u == nil {
		return nil, &InvalidRequestError{Reason: "url components could not be assembled"}
	}
	u.RawQuery = EncodeQuery(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &InvalidRequestError{Reason: "could not create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if apiToken != "" && c.TokenHeader != "" {
		req.Header.Set(c.TokenHeader, apiToken)
	}
	return req, nil
}

// EncodeQuery percent-encodes params in their given order. Spaces become %20.
func EncodeQuery(params []QueryParam) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, queryEscape(p.Name)+"="+queryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Execute performs the request and returns the body only for 2xx responses.
func (c *HTTPClient) Execute(req *http.Request) ([]byte, error) {
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &NonProtocolResponseError{Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NonProtocolResponseError{Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UnsuccessfulStatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	return resBody, nil
}

// Get builds and executes a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string, params []QueryParam) ([]byte, error) {
	req, err := c.BuildRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return c.Execute(req)
}

// DecodeJSON unmarshals data into v, reporting any failure as a DecodeError.
func DecodeJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
