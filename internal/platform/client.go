package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tradegate/tradegate/internal/metrics"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second
	// maxResponseBytes bounds how much of an upstream body is read.
	maxResponseBytes = 1 << 20 // 1MB
)

// Client issues signed requests to the trading platform.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
	metrics    metrics.Recorder
}

// New creates a platform Client. The timeout bounds each call
// end-to-end; a timeout is indistinguishable from any other transport
// failure for callers.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   DialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   TLSHandshakeTimeout,
				ResponseHeaderTimeout: ResponseHeaderTimeout,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger.With("component", "platform.client"),
		metrics: recorder,
	}
}

// apply attaches the access key pair to a parameter set.
func (k accessKey) apply(v url.Values) {
	v.Set("key", k.Key)
	v.Set("rand_param", k.RandParam)
}

// get issues a signed GET to the named platform operation.
func (c *Client) get(ctx context.Context, op string, params url.Values) (*Result, error) {
	u := c.baseURL + "/" + op + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	return c.do(req, op)
}

// postForm issues a signed form-encoded POST to the named operation.
func (c *Client) postForm(ctx context.Context, op string, form url.Values) (*Result, error) {
	u := c.baseURL + "/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, op)
}

// do executes the request and parses the platform envelope. Every
// failure mode that is not a well-formed upstream rejection collapses
// into ErrUnavailable: network errors, timeouts, non-2xx statuses,
// unreadable or unparseable bodies. A parsed envelope with a
// non-success result comes back as a *ResultError.
func (c *Client) do(req *http.Request, op string) (*Result, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObservePlatformCall(op, time.Since(start))

	if err != nil {
		c.logger.Warn("platform call failed", "op", op, "error", err)
		return nil, fmt.Errorf("platform %s: %w: %s", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("platform %s: read body: %w", op, ErrUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("platform returned non-2xx",
			"op", op,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("platform %s: status %d: %w", op, resp.StatusCode, ErrUnavailable)
	}

	res, ok := ParseResult(body)
	if !ok {
		c.logger.Warn("platform response failed schema check", "op", op)
		return nil, fmt.Errorf("platform %s: malformed response: %w", op, ErrUnavailable)
	}

	if !res.Success() {
		c.logger.Info("platform rejected operation",
			"op", op,
			"result", res.Result,
			"error_number", res.ErrorNumber,
		)
		return nil, &ResultError{Op: op, Result: res}
	}

	return res, nil
}
