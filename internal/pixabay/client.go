// Package pixabay is a minimal client for the Pixabay image search endpoint.
package pixabay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"photogrid/internal/domain"
)

const (
	// DefaultBaseURL is the public search endpoint
	DefaultBaseURL = "https://pixabay.com/api/"
	// DefaultTerm replaces a term that cannot be encoded
	DefaultTerm = "paris"
	// PerPage is the fixed page size of every request
	PerPage = 200
	// SafeSearch is always requested
	SafeSearch = true

	// DefaultRequestsPerMinute matches the documented API allowance
	DefaultRequestsPerMinute = 100

	maxErrorBody = 512
)

// response is the body of a search response
type response struct {
	Total     int            `json:"total"`
	TotalHits int            `json:"totalHits"`
	Hits      []domain.Photo `json:"hits"`
}

// Client issues search requests
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	apiKey      string
	defaultTerm string
	limiter     *rate.Limiter
	log         zerolog.Logger
}

// Option configures a Client
type Option func(*Client) error

// WithBaseURL overrides the endpoint
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: scheme must be http or https: %q", ErrInvalidBaseURL, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("%w: missing host: %q", ErrInvalidBaseURL, raw)
		}
		c.baseURL = u
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.httpClient = &http.Client{Timeout: d}
		return nil
	}
}

// WithRateLimit limits requests to perMinute with the given burst.
// A non-positive perMinute disables limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(c *Client) error {
		if perMinute <= 0 {
			c.limiter = nil
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
		return nil
	}
}

// WithDefaultTerm sets the fallback term used when a term cannot be encoded
func WithDefaultTerm(term string) Option {
	return func(c *Client) error {
		if t := domain.NormalizeTerm(term); t != "" {
			c.defaultTerm = t
		}
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = log.With().Str("component", "pixabay").Logger()
		return nil
	}
}

// NewClient creates a client for the given API key
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	base, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		baseURL:     base,
		apiKey:      apiKey,
		defaultTerm: DefaultTerm,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/DefaultRequestsPerMinute), 10),
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// EncodeTerm percent-encodes a term for use as a query parameter value.
// It fails for text that is not valid UTF-8.
func EncodeTerm(term string) (string, bool) {
	if !utf8.ValidString(term) {
		return "", false
	}
	return url.QueryEscape(term), true
}

// NewRequest builds the GET request for term. A term that cannot be encoded is
// replaced by the client's default term.
func (c *Client) NewRequest(ctx context.Context, term string) (*http.Request, error) {
	encoded, ok := EncodeTerm(term)
	if !ok {
		c.log.Warn().Str("fallback", c.defaultTerm).Msg("search term could not be encoded, using default")
		encoded, _ = EncodeTerm(c.defaultTerm)
	}

	u := *c.baseURL
	u.RawQuery = strings.Join([]string{
		"key=" + url.QueryEscape(c.apiKey),
		"q=" + encoded,
		"per_page=" + strconv.Itoa(PerPage),
		"safesearch=" + strconv.FormatBool(SafeSearch),
	}, "&")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Search performs one query and returns the hits in the order received
func (c *Client) Search(ctx context.Context, term string) ([]domain.Photo, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	req, err := c.NewRequest(ctx, term)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if r.Hits == nil {
		return nil, fmt.Errorf("%w: response has no hits field", ErrDecode)
	}

	c.log.Debug().
		Str("term", term).
		Int("hits", len(r.Hits)).
		Int("total", r.TotalHits).
		Dur("took", time.Since(started)).
		Msg("search completed")

	return r.Hits, nil
}
