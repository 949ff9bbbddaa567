// Copyright (c) DevOps Wiz
// SPDX-License-Identifier: MPL-2.0

package nessus

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

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	headerAPIKeys     = "X-ApiKeys"
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// Client issues Nessus API operations. It is safe for concurrent use: the only
// state shared between calls is the immutable Config and the HTTP transport.
type Client struct {
	cfg     Config
	baseURL string
	http    *retryablehttp.Client
	logger  retryablehttp.LeveledLogger
	base    *http.Client
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithLogger sets the leveled logger used for request/response debug logging.
// Header values are never logged.
func WithLogger(l retryablehttp.LeveledLogger) Option {
	return func(c *Client) { c.logger = l }
}

// ContextLogger is a LeveledLogger that can bind to the context of each
// request. Request logs then go through WithContext(req ctx).
type ContextLogger interface {
	retryablehttp.LeveledLogger
	WithContext(ctx context.Context) retryablehttp.LeveledLogger
}

// WithHTTPClient replaces the underlying *http.Client. AllowSelfSigned and
// Timeout from Config are not applied to a caller supplied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.base = hc }
}

// New validates cfg and returns a Client bound to it.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, baseURL: cfg.endpointBase()}
	for _, opt := range opts {
		opt(c)
	}
	c.http = buildHTTPClient(cfg, c.base, c.logger)
	return c, nil
}

// Config returns a copy of the connection settings.
func (c *Client) Config() Config { return c.cfg }

// buildHTTPClient constructs the transport. Retries are disabled: RetryMax is 0,
// CheckRetry never asks for another attempt and errors pass through untouched
// so classify sees the original response.
func buildHTTPClient(cfg Config, base *http.Client, logger retryablehttp.LeveledLogger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.CheckRetry = func(_ context.Context, _ *http.Response, _ error) (bool, error) { return false, nil }
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if _, bound := logger.(ContextLogger); !bound && logger != nil {
		rc.Logger = logger
	}

	if base != nil {
		rc.HTTPClient = base
		return rc
	}

	transport := cleanhttp.DefaultPooledTransport()
	if cfg.AllowSelfSigned {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed Nessus certificates
	}
	rc.HTTPClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	return rc
}

// call performs one JSON operation and returns the response body verbatim.
// A successful response with an empty body is returned as "{}".
func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, body any) (json.RawMessage, error) {
	data, err := c.send(ctx, method, endpoint, query, body)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, &Error{
			Kind:       UnknownError,
			Message:    fmt.Sprintf("%s %s: response is not valid JSON", method, endpoint),
			StatusCode: http.StatusOK,
		}
	}
	return json.RawMessage(data), nil
}

// send issues exactly one request and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, body any) ([]byte, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rawBody interface{}
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: UnknownError, Message: fmt.Sprintf("encode request body: %v", err), Err: err}
		}
		rawBody = buf
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, rawBody)
	if err != nil {
		return nil, &Error{Kind: UnknownError, Message: fmt.Sprintf("build request: %v", err), Err: err}
	}
	req.Header.Set(headerAPIKeys, c.cfg.apiKeysHeader())
	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set("Accept", mimeJSON)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.debug(ctx, "nessus request failed", "method", method, "endpoint", endpoint, "error", err.Error())
		return nil, classify(0, nil, nil, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.debug(ctx, "nessus response", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())
	if err != nil {
		return nil, classify(resp.StatusCode, nil, resp.Header, fmt.Errorf("read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, data, resp.Header, &ResponseError{StatusCode: resp.StatusCode, Body: data})
	}
	return data, nil
}

func (c *Client) debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	switch l := c.logger.(type) {
	case nil:
	case ContextLogger:
		l.WithContext(ctx).Debug(msg, keysAndValues...)
	default:
		l.Debug(msg, keysAndValues...)
	}
}
