// Package remote performs JSON calls against the remote catalog service.
package remote

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/catalog-console/internal/apperror"
	"github.com/tair/catalog-console/pkg/logger"
)

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 4 << 20

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Breaker   *CircuitBreaker
	Metrics   *Metrics
}

// Client issues JSON requests to one base origin. Calls are traced with
// otelhttp, guarded by the circuit breaker and never retried.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *CircuitBreaker
	metrics *Metrics
}

func New(opts Options) *Client {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		breaker: opts.Breaker,
		metrics: opts.Metrics,
	}
}

// BaseURL returns the configured origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Breaker returns the circuit breaker, or nil when none is configured
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// Request describes one remote call
type Request struct {
	Op     string // operation name used in errors, logs and metrics
	Method string
	Path   string
	Query  url.Values
	Token  string // bearer token, attached when non-empty
	Body   interface{}
}

// Do performs req and decodes a successful JSON body into out (when non-nil).
// Every failure is a *apperror.RequestError; Status is set for non-success responses.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	start := time.Now()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return &apperror.RequestError{Op: req.Op, Err: err}
	}

	var (
		status int
		body   []byte
	)
	call := func() error {
		resp, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("upstream status %d", status)
		}
		return nil
	}

	if c.breaker != nil {
		err = c.breaker.Call(call)
	} else {
		err = call()
	}
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, ErrCircuitOpen):
		c.metrics.observe(req.Op, OutcomeRejected, elapsed)
		logger.Warn(ctx).Str("op", req.Op).Msg("Remote call rejected by circuit breaker")
		return &apperror.RequestError{Op: req.Op, Err: err}

	case err != nil && status < http.StatusInternalServerError:
		c.metrics.observe(req.Op, OutcomeTransport, elapsed)
		logger.Warn(ctx).Err(err).Str("op", req.Op).Dur("duration", elapsed).Msg("Remote call failed")
		return &apperror.RequestError{Op: req.Op, Err: err}

	case status < 200 || status > 299:
		c.metrics.observe(req.Op, OutcomeStatus, elapsed)
		logger.Warn(ctx).
			Str("op", req.Op).
			Int("status", status).
			Dur("duration", elapsed).
			Msg("Remote call returned non-success status")
		return &apperror.RequestError{Op: req.Op, Status: status}
	}

	c.metrics.observe(req.Op, OutcomeSuccess, elapsed)
	logger.Debug(ctx).
		Str("op", req.Op).
		Int("status", status).
		Dur("duration", elapsed).
		Msg("Remote call completed")

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &apperror.RequestError{Op: req.Op, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	return httpReq, nil
}

// Ping checks that the origin answers at all; used by the readiness probe
func (c *Client) Ping(ctx context.Context, path string) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
