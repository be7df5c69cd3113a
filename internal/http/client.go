// Package http is the single-shot JSON transport used by every Halo API call.
// It never retries; retry policy lives in the resilience package.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
)

// TokenManager supplies the bearer token attached to each request. An empty
// token means the request is sent without an Authorization header.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Client is a thin HTTP client bound to a base URL.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	tokenManager TokenManager
	logger       hclog.Logger
	userAgent    string
	debug        bool
}

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// RawBody is sent verbatim instead of Body. ContentType must be set.
	RawBody     []byte
	ContentType string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON reports whether the body parses as JSON.
func (r *Response) JSON() bool {
	return r != nil && json.Valid(r.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for transport and debug logging.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
			c.httpClient.Logger = logger.Named("transport")
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// NewClient creates a new HTTP client. tokenManager may be nil.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cleanhttp.DefaultPooledClient()
	retryClient.HTTPClient.Timeout = halo.DefaultTimeout
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   retryClient,
		tokenManager: tokenManager,
		logger:       hclog.NewNullLogger(),
		userAgent:    halo.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// noRetry keeps go-retryablehttp single-shot while still surfacing context
// cancellation.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}

// Do executes req and maps the response status to typed errors. For any
// response that was received, the returned *Response is non-nil even when err
// is not.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	if c.debug {
		c.logger.Debug("HTTP Request", "method", req.Method, "url", httpReq.URL.String())
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, &halo.TransportError{Op: req.Method + " " + req.Path, Cause: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &halo.TransportError{Op: "reading response body", Cause: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug {
		c.logger.Debug("HTTP Response",
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"bytes", len(body),
		)
	}

	return resp, c.checkResponse(req.Path, resp)
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		body        interface{}
		contentType string
	)

	switch {
	case req.RawBody != nil:
		body = req.RawBody
		contentType = req.ContentType
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = data
		contentType = "application/json"
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) checkResponse(path string, resp *Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if len(bytes.TrimSpace(resp.Body)) > 0 && !json.Valid(resp.Body) {
			return &halo.MalformedResponseError{
				StatusCode: resp.StatusCode,
				Body:       string(resp.Body),
				Cause:      ErrInvalidJSON,
			}
		}

		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &halo.AuthenticationError{Message: halo.ParseErrorDetail(resp.Body)}
	case resp.StatusCode == http.StatusForbidden:
		return &halo.AuthorizationError{Message: halo.ParseErrorDetail(resp.Body)}
	case resp.StatusCode == http.StatusNotFound:
		return &halo.ResourceNotFoundError{Resource: resourceName(path), Path: path}
	case resp.StatusCode >= 400:
		return &halo.NetworkError{StatusCode: resp.StatusCode, Detail: halo.ParseErrorDetail(resp.Body)}
	default:
		// 1xx, and 3xx responses that were not followed.
		return &halo.NetworkError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("unexpected status code %d", resp.StatusCode),
		}
	}
}

// ErrInvalidJSON is the cause carried by MalformedResponseError.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// resourceName picks the resource segment that follows the API version in a
// Halo path, e.g. "attachments" for /apis/storage.halo.run/v1alpha1/attachments/x.
func resourceName(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "v1") && i+1 < len(segments) {
			return segments[i+1]
		}
	}

	return "resource"
}

// DoJSON executes req and decodes a successful body into out.
func (c *Client) DoJSON(ctx context.Context, req *Request, out interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// PostRaw performs a POST request with a pre-encoded body, e.g. multipart.
func (c *Client) PostRaw(ctx context.Context, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, RawBody: body, ContentType: contentType})
}
