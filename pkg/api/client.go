// Package api wraps outbound HTTP calls to the portfolio backend: one base URL, one per-request
// timeout, JSON bodies, diagnostic logging, and a single error shape for transport failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/portfolio-client/pkg/logging"
)

const (
	// DefaultTimeout is the per-request timeout when the config leaves it unset.
	DefaultTimeout = 10 * time.Second
	// RequestIDHeader carries a client-generated id for correlating logs on both ends.
	RequestIDHeader = "X-Request-ID"
	// UserAgent is sent on every request.
	UserAgent = "portfolio-client/1.0"
)

// Config is the explicit configuration the client is constructed from.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client performs HTTP calls against a configured base URL.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) (opt Option) {
	opt = func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
	return opt
}

// Response is a received HTTP response, passed through regardless of status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() (ok bool) {
	ok = r != nil && r.StatusCode >= 200 && r.StatusCode < 300
	return ok
}

// NewClient creates a new API client.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) (client *Client, err error) {
	var baseURL string
	baseURL, err = normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return client, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client = &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logging.OrNop(logger).With(zap.String("component", "api")),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, err
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() (baseURL string) {
	baseURL = c.baseURL
	return baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() (timeout time.Duration) {
	timeout = c.timeout
	return timeout
}

// Get issues a GET for path.
func (c *Client) Get(ctx context.Context, path string) (resp *Response, err error) {
	resp, err = c.Do(ctx, http.MethodGet, path, nil)
	return resp, err
}

// Post issues a POST of body, JSON-encoded, to path.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (resp *Response, err error) {
	resp, err = c.Do(ctx, http.MethodPost, path, body)
	return resp, err
}

// Do sends a request and returns whatever response arrives. Status codes are not interpreted.
// Failures to get a complete response come back as *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) (resp *Response, err error) {
	// Encode body
	var bodyReader io.Reader
	if body != nil {
		var payload []byte
		payload, err = json.Marshal(body)
		if err != nil {
			err = errors.Wrap(err, "failed to marshal request body")
			return resp, err
		}
		bodyReader = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(reqCtx, method, c.resolve(path), bodyReader)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return resp, err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", UserAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	var httpResp *http.Response
	httpResp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = c.networkError(method, path, requestID, start, err)
		return resp, err
	}
	defer httpResp.Body.Close()

	var respBody []byte
	respBody, err = io.ReadAll(httpResp.Body)
	if err != nil {
		err = c.networkError(method, path, requestID, start, err)
		return resp, err
	}

	elapsed := time.Since(start)
	observeRequest(method, path, outcomeForStatus(httpResp.StatusCode), elapsed)
	c.logger.Debug("api response",
		zap.String("path", path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestID),
	)

	resp = &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}

	return resp, err
}

func (c *Client) networkError(method, path, requestID string, start time.Time, cause error) (err error) {
	observeRequest(method, path, outcomeNetworkError, time.Since(start))
	c.logger.Error("api request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Error(cause),
	)
	err = &NetworkError{Method: method, Path: path, Err: cause}
	return err
}

// resolve joins the base URL and a relative path with exactly one slash.
func (c *Client) resolve(path string) (full string) {
	full = c.baseURL + "/" + strings.TrimLeft(path, "/")
	return full
}

func normalizeBaseURL(raw string) (baseURL string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		err = errors.New("base URL is required")
		return baseURL, err
	}

	var parsed *url.URL
	parsed, err = url.Parse(raw)
	if err != nil {
		err = errors.Wrapf(err, "invalid base URL: %s", raw)
		return baseURL, err
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		err = errors.Errorf("base URL must be an absolute http(s) URL: %s", raw)
		return baseURL, err
	}

	baseURL = strings.TrimRight(raw, "/")
	return baseURL, err
}
