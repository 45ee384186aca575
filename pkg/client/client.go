// Package client provides the Milano-Cortina 2026 events API client with
// quota tracking, retry, and error classification.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/LucyDev256/milano-events-client/pkg/quota"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for API client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_api_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "events_api_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "events_api_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

// Client is the Milano-Cortina events API client. It is a stateless
// request/response translator: it performs network I/O only and never
// persists anything.
type Client struct {
	httpClient *http.Client
	quota      *quota.Tracker
	config     Config
	logger     zerolog.Logger
	sleep      sleepFunc
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the events API.
	BaseURL string

	// APIKey is the RapidAPI credential. Required.
	APIKey string

	// APIHost is sent as the X-RapidAPI-Host header.
	APIHost string

	// Timeout applies per attempt.
	Timeout time.Duration

	// Retry controls the backoff schedule for transient failures.
	Retry RetryConfig
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL: "https://milano-cortina-2026-olympics-api.p.rapidapi.com",
		APIKey:  apiKey,
		APIHost: "milano-cortina-2026-olympics-api.p.rapidapi.com",
		Timeout: 10 * time.Second,
		Retry:   DefaultRetryConfig(),
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := log.With().Str("component", "api-client").Logger()

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		quota:      quota.NewTracker(logger),
		config:     cfg,
		logger:     logger,
		sleep:      defaultSleep,
	}, nil
}

// Fetch performs a GET request against an endpoint with the given query
// parameters and returns the validated response. Transient failures are
// retried per the retry configuration; auth, rate-limit, client, and
// malformed failures abort immediately.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// A known-exhausted quota window makes the request a guaranteed 429;
	// fail fast instead of burning it.
	if c.quota.Exhausted() {
		requestsTotal.WithLabelValues(endpoint, "quota_blocked").Inc()
		errorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
		c.logger.Warn().Str("endpoint", endpoint).Msg("Request blocked: API quota exhausted")
		return nil, &APIError{
			StatusCode: http.StatusTooManyRequests,
			Class:      ErrorClassRateLimit,
			Message:    "request quota exhausted",
		}
	}

	var resp *Response
	err := retryWithBackoff(ctx, c.config.Retry, c.logger, c.sleep, func() error {
		var attemptErr error
		resp, attemptErr = c.doRequest(ctx, endpoint, params)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// doRequest performs a single attempt.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	reqURL := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.config.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.config.APIHost)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Msg("Executing API request")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		errorsTotal.WithLabelValues(string(ErrorClassTransient)).Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			Class:   ErrorClassTransient,
			Message: "network failure",
			Err:     err,
		}
	}
	defer httpResp.Body.Close()

	c.quota.UpdateFromHeaders(httpResp.Header)

	requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", httpResp.StatusCode)).Inc()

	if httpResp.StatusCode >= 400 {
		errClass := classifyStatus(httpResp.StatusCode)
		errorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", httpResp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("API request error")

		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      errClass,
			Message:    httpResp.Status,
		}
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassTransient)).Inc()
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Class:      ErrorClassTransient,
			Message:    "read response body",
			Err:        err,
		}
	}

	decoded, err := decodeResponse(httpResp.StatusCode, body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassMalformed)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Msg("API response has unexpected shape")
		return nil, err
	}
	return decoded, nil
}

// classifyStatus categorizes an HTTP error status.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrorClassAuth
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 500:
		return ErrorClassTransient
	default:
		return ErrorClassClient
	}
}

// Quota returns the quota tracker, exposing the current request-budget state.
func (c *Client) Quota() *quota.Tracker {
	return c.quota
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetSleep sets a custom backoff sleep function (for testing).
func (c *Client) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	c.sleep = sleep
}
