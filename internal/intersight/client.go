// Package intersight is a minimal signed REST client for the management
// platform's compute and equipment APIs. Every request is signed by the
// shared signing abstraction; responses can be decoded as JSON or returned
// as raw bytes (the log download endpoint does not answer JSON).
package intersight

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"selcollect/internal/signing"
)

// Client is a signed HTTP client bound to one API base URL.
type Client struct {
	baseURL    string
	signer     *signing.Signer
	httpClient *http.Client
}

// APIError represents a non-2xx HTTP response.
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithInsecureTLS disables TLS certificate verification. The platform's
// on-prem appliances commonly present self-signed certificates.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the given base URL (scheme + host) signing
// every request with signer.
func New(baseURL string, signer *signing.Signer, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		signer:  signer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do builds, signs, and executes one request, returning the response body.
// Non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if err := c.signer.Sign(req, payload); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := string(body)
		if len(bodyStr) > 512 {
			bodyStr = bodyStr[:512]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: bodyStr}
	}
	return body, nil
}

// GetJSON sends a signed GET request and unmarshals the JSON response into
// dest. Returns *APIError for non-2xx responses.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

// PostJSON sends a signed POST request with a JSON payload. A non-nil dest
// receives the decoded response body.
func (c *Client) PostJSON(ctx context.Context, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPost, path, nil, data)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(body, dest)
}

// GetRaw sends a signed GET request and returns the raw response body.
// The log download endpoint answers plain text, not JSON.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

// filterQuery builds an OData-style $filter query.
func filterQuery(expr string) url.Values {
	q := url.Values{}
	q.Set("$filter", expr)
	return q
}

// ListPhysicalSummaries returns every physical server known to the platform.
func (c *Client) ListPhysicalSummaries(ctx context.Context) ([]PhysicalSummary, error) {
	var list PhysicalSummaryList
	if err := c.GetJSON(ctx, PathPhysicalSummaries, nil, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ListServerSettings returns the settings resources whose parent is the
// given server.
func (c *Client) ListServerSettings(ctx context.Context, serverMoid string) ([]ServerSetting, error) {
	query := filterQuery(fmt.Sprintf("Parent.Moid eq '%s'", serverMoid))
	var list ServerSettingList
	if err := c.GetJSON(ctx, PathServerSettings, query, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// UpdateServerSetting posts an update to one settings resource.
func (c *Client) UpdateServerSetting(ctx context.Context, moid string, setting ServerSetting) error {
	return c.PostJSON(ctx, PathServerSettings+"/"+moid, setting, nil)
}

// ListEndPointLogs returns the endpoint logs generated for the given server.
func (c *Client) ListEndPointLogs(ctx context.Context, serverMoid string) ([]EndPointLog, error) {
	query := filterQuery(fmt.Sprintf("Server.Moid eq '%s'", serverMoid))
	var list EndPointLogList
	if err := c.GetJSON(ctx, PathEndPointLogs, query, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// DownloadLog fetches the raw body of one generated log. Only meaningful on
// a Client bound to the download host.
func (c *Client) DownloadLog(ctx context.Context, logMoid string) ([]byte, error) {
	return c.GetRaw(ctx, PathLogDownloads+"/"+logMoid)
}
