package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultEndpoint is the ipinfo-style JSON endpoint queried for the
	// caller's own address.
	DefaultEndpoint = "https://ipinfo.io/json"

	// DefaultTimeout bounds a single lookup. Geolocation is best-effort and
	// must never stall an authentication flow.
	DefaultTimeout = 5 * time.Second
)

// Config holds geolocation client configuration.
type Config struct {
	Endpoint string        `env:"GEOIP_ENDPOINT" envDefault:"https://ipinfo.io/json"`
	Token    string        `env:"GEOIP_TOKEN"`
	Timeout  time.Duration `env:"GEOIP_TIMEOUT" envDefault:"5s"`
}

// Client resolves the caller's approximate location from its public IP.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for tests and
// for callers that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets the API token sent with each lookup.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a geolocation client for the given endpoint.
// An empty endpoint falls back to DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewFromConfig creates a client from environment-driven configuration.
func NewFromConfig(cfg Config) *Client {
	opts := []Option{}
	if cfg.Token != "" {
		opts = append(opts, WithToken(cfg.Token))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, WithTimeout(cfg.Timeout))
	}
	return New(cfg.Endpoint, opts...)
}

// Lookup resolves the caller's current location. On any failure it returns a
// fully Unknown location alongside the error so callers can degrade without
// branching on the error if they choose to.
func (c *Client) Lookup(ctx context.Context) (Location, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return unknownLocation(), errors.Join(ErrLookupFailed, err)
	}
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return unknownLocation(), errors.Join(ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return unknownLocation(), errors.Join(ErrLookupFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return unknownLocation(), errors.Join(ErrLookupFailed,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return unknownLocation(), errors.Join(ErrLookupFailed, err)
	}

	return loc.normalize(), nil
}
