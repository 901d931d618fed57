package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	logpkg "github.com/beaconstream/beacon/pkg/log"
)

const (
	defaultAttempts    = 3
	defaultTimeout     = 5 * time.Second
	defaultBackoffBase = 500 * time.Millisecond

	publishPath = "/api/sse/publish"
	healthPath  = "/health"
)

// Result is the gateway's verdict on one publish call. Delivery failure is
// reported here, never as an error.
type Result struct {
	Success   bool   `json:"success"`
	Delivered int    `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// Health is the gateway's liveness status as seen by the client.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
	Service   string `json:"service,omitempty"`
	Error     string `json:"error,omitempty"`
}

// envelope is the publish request body.
type envelope struct {
	Channel   string                 `json:"channel"`
	Data      interface{}            `json:"data"`
	Filters   map[string]interface{} `json:"filters"`
	Timestamp int64                  `json:"timestamp"`
	Service   string                 `json:"service"`
}

// Client delivers event envelopes to a Beacon gateway with bounded retries.
// One instance per producing service; safe for concurrent use.
type Client struct {
	gatewayURL   string
	serviceToken string
	serviceName  string

	httpClient  *http.Client
	attempts    int
	backoffBase time.Duration
	logger      logpkg.Logger
	now         func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAttempts sets the delivery attempt ceiling per publish call.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithBackoffBase sets the linear backoff unit between attempts.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoffBase = d
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l logpkg.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a publish client for one producing service. The gateway URL is
// required; everything else has defaults (3 attempts, 5s per-attempt timeout,
// 500ms linear backoff).
func New(gatewayURL, serviceToken, serviceName string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(gatewayURL) == "" {
		return nil, errors.New("publisher: gateway URL is required")
	}
	c := &Client{
		gatewayURL:   strings.TrimRight(gatewayURL, "/"),
		serviceToken: serviceToken,
		serviceName:  serviceName,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		attempts:     defaultAttempts,
		backoffBase:  defaultBackoffBase,
		logger:       logpkg.NewLogger(logpkg.WithLevel(logpkg.WarnLevel)),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("publisher").With(logpkg.Str("service", serviceName))
	return c, nil
}

// Publish delivers one event envelope to the gateway. It attempts delivery up
// to the configured ceiling with linearly growing backoff between failures
// and returns the gateway's decoded response on first success. Exhaustion is
// reported as a Result with Success=false, never as a panic or error.
func (c *Client) Publish(ctx context.Context, channel string, data interface{}, filters map[string]interface{}) Result {
	if channel == "" {
		return Result{Success: false, Error: "channel must not be empty"}
	}
	if filters == nil {
		filters = map[string]interface{}{}
	}
	body, err := json.Marshal(envelope{
		Channel:   channel,
		Data:      data,
		Filters:   filters,
		Timestamp: c.now().UnixMilli(),
		Service:   c.serviceName,
	})
	if err != nil {
		return Result{Success: false, Error: fmt.Sprintf("encode envelope: %v", err)}
	}

	var out Result
	attempt := 0
	op := func() error {
		attempt++
		res, err := c.post(ctx, c.gatewayURL+publishPath, body)
		if err != nil {
			c.logger.Warn("publish attempt failed",
				logpkg.Str("channel", channel),
				logpkg.Int("attempt", attempt),
				logpkg.Err(err),
			)
			return err
		}
		out = res
		c.logger.Debug("event published",
			logpkg.Str("channel", channel),
			logpkg.Int("delivered", res.Delivered),
			logpkg.Int("attempt", attempt),
		)
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{base: c.backoffBase}, uint64(c.attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		c.logger.Error("publish failed after all attempts",
			logpkg.Str("channel", channel),
			logpkg.Int("attempts", attempt),
			logpkg.Err(err),
		)
		return Result{Success: false, Error: "max retry attempts exceeded", Delivered: 0}
	}
	return out
}

// post performs one delivery attempt.
func (c *Client) post(ctx context.Context, url string, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "beacon-publisher/"+c.serviceName)
	if c.serviceToken != "" {
		req.Header.Set("X-Service-Token", c.serviceToken)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

// HealthCheck probes the gateway's liveness endpoint. It never returns an
// error: unreachable or unhealthy gateways are reported in the Health value.
func (c *Client) HealthCheck(ctx context.Context) Health {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+healthPath, nil)
	if err != nil {
		return Health{Status: "unreachable", Error: err.Error()}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{Status: "unreachable", Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Health{Status: "unhealthy", Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{Status: "unhealthy", Error: fmt.Sprintf("decode response: %v", err)}
	}
	return h
}
