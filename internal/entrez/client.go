package entrez

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rebeccacombs/rnai-project/internal/domain"
)

const (
	// DefaultBaseURL is the base URL for NCBI E-utilities API.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultRateLimit is the rate limit without an API key (3 requests/second).
	// With an API key, the limit increases to 10 requests/second.
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResults caps the number of PMIDs requested per search.
	// Kept low to respect NCBI rate limits.
	DefaultMaxResults = 15

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 10 << 20
)

// Config holds the configuration for the E-utilities client.
type Config struct {
	// BaseURL is the base URL for the E-utilities API.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is the NCBI API key for higher rate limits. Optional; the
	// service tolerates its absence at reduced limits.
	APIKey string

	// Timeout is the request timeout. Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to DefaultRateLimit if zero.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to DefaultBurstSize if zero.
	BurstSize int

	// MaxResults is the default cap on PMIDs per search.
	// Defaults to DefaultMaxResults if zero.
	MaxResults int
}

// applyDefaults applies default values to the config.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
}

// Observer receives an observation for every API call the client makes.
// *observability.Metrics satisfies this interface.
type Observer interface {
	RecordEntrezRequest(endpoint string, durationSeconds float64)
	RecordEntrezRequestFailed(endpoint string)
}

// Client talks to the E-utilities API. It performs the two remote calls of
// an ingestion pass: the PMID search (esearch) and the batch detail fetch
// (efetch).
type Client struct {
	config     Config
	httpClient *HTTPClient
	observer   Observer
}

// New creates a new E-utilities client with the given configuration.
func New(cfg Config) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		httpClient: NewHTTPClient(HTTPClientConfig{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			BurstSize: cfg.BurstSize,
		}),
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *HTTPClient) *Client {
	cfg.applyDefaults()
	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}
}

// WithObserver attaches an observer that records per-call timings and
// failures. Returns the client for chaining.
func (c *Client) WithObserver(obs Observer) *Client {
	c.observer = obs
	return c
}

// SearchIDs issues the esearch call and returns the PMIDs matching the query,
// capped at maxResults (the configured cap when maxResults <= 0). A query
// phrase the service does not recognize yields an empty list, not an error.
func (c *Client) SearchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = c.config.MaxResults
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("term", query)
	q.Set("retmode", "xml")
	q.Set("retmax", strconv.Itoa(maxResults))

	body, err := c.get(ctx, "esearch.fcgi", q)
	if err != nil {
		return nil, err
	}

	var result ESearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, &domain.RemoteError{
			Endpoint: "esearch",
			Kind:     domain.ErrMalformedResponse,
			Cause:    err,
		}
	}

	if result.ErrorList != nil && len(result.ErrorList.PhraseNotFound) > 0 {
		return []string{}, nil
	}

	return result.IDList.IDs, nil
}

// FetchArticles issues a single efetch call for all PMIDs at once and returns
// the raw article records. Batching all detail fetches into one call
// minimizes round trips at the cost of all-or-nothing failure for the call.
func (c *Client) FetchArticles(ctx context.Context, pmids []string) ([]PubmedArticle, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("db", "pubmed")
	q.Set("id", strings.Join(pmids, ","))
	q.Set("retmode", "xml")
	q.Set("rettype", "abstract")

	body, err := c.get(ctx, "efetch.fcgi", q)
	if err != nil {
		return nil, err
	}

	var result PubmedArticleSet
	if err := xml.Unmarshal(body, &result); err != nil {
		return nil, &domain.RemoteError{
			Endpoint: "efetch",
			Kind:     domain.ErrMalformedResponse,
			Cause:    err,
		}
	}

	return result.Articles, nil
}

// get executes a GET against an E-utilities endpoint and returns the body.
// Network and status failures map to ErrRemoteUnavailable.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	u, err := url.Parse(c.config.BaseURL + "/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	if c.config.APIKey != "" {
		q.Set("api_key", c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeFailure(endpoint)
		return nil, &domain.RemoteError{
			Endpoint: endpoint,
			Kind:     domain.ErrRemoteUnavailable,
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.observeFailure(endpoint)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &domain.RemoteError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Kind:       domain.ErrRemoteUnavailable,
			Cause:      fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observeFailure(endpoint)
		return nil, &domain.RemoteError{
			Endpoint: endpoint,
			Kind:     domain.ErrRemoteUnavailable,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if c.observer != nil {
		c.observer.RecordEntrezRequest(endpointLabel(endpoint), time.Since(start).Seconds())
	}

	return body, nil
}

func (c *Client) observeFailure(endpoint string) {
	if c.observer != nil {
		c.observer.RecordEntrezRequestFailed(endpointLabel(endpoint))
	}
}

// endpointLabel strips the CGI suffix so metric labels read "esearch"
// rather than "esearch.fcgi".
func endpointLabel(endpoint string) string {
	return strings.TrimSuffix(endpoint, ".fcgi")
}
