// Package openlibrary is the remote book catalog used for search and work details.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/bookie/internal/dataerror"
)

const (
	// DefaultBaseURL is the public OpenLibrary endpoint.
	DefaultBaseURL = "https://openlibrary.org"

	userAgent    = "Bookie/1.0 (https://github.com/mrlokans/bookie)"
	searchFields = "key,title,author_name,author_key,cover_edition_key,cover_i,ratings_average,ratings_count,first_publish_year,language,number_of_pages_median,edition_count"
)

// Config configures the OpenLibrary client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps outgoing calls. Zero or less disables limiting.
	RequestsPerSecond float64
}

// Client fetches search results and work details from the OpenLibrary API.
// Every error it returns is a *dataerror.Remote.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a rate limited OpenLibrary client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// SearchBooks runs a full-text search limited to English editions.
func (c *Client) SearchBooks(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("language", "eng")
	params.Set("fields", searchFields)

	var res SearchResponse
	if err := c.get(ctx, c.baseURL+"/search.json?"+params.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetBookDetails fetches a work by its id (e.g. "OL45804W").
func (c *Client) GetBookDetails(ctx context.Context, workID string) (*BookWork, error) {
	var work BookWork
	if err := c.get(ctx, fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(workID)), &work); err != nil {
		return nil, err
	}
	return &work, nil
}

func (c *Client) get(ctx context.Context, rawURL string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return dataerror.NewRemote(dataerror.RemoteUnknown, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return dataerror.NewRemote(dataerror.RemoteUnknown, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dataerror.NewRemote(classifyTransportError(err), err)
	}
	defer resp.Body.Close()

	if kind, ok := classifyStatus(resp.StatusCode); !ok {
		return dataerror.NewRemote(kind, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return dataerror.NewRemote(dataerror.RemoteSerialization, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// classifyStatus reports whether status is a success and, if not, which kind
// of remote error it maps to.
func classifyStatus(status int) (dataerror.RemoteKind, bool) {
	switch {
	case status >= 200 && status <= 299:
		return "", true
	case status == http.StatusRequestTimeout:
		return dataerror.RemoteRequestTimeout, false
	case status == http.StatusTooManyRequests:
		return dataerror.RemoteTooManyRequests, false
	case status >= 500 && status <= 599:
		return dataerror.RemoteServer, false
	default:
		return dataerror.RemoteUnknown, false
	}
}

func classifyTransportError(err error) dataerror.RemoteKind {
	if errors.Is(err, context.Canceled) {
		return dataerror.RemoteUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dataerror.RemoteRequestTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return dataerror.RemoteNoInternet
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return dataerror.RemoteRequestTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return dataerror.RemoteNoInternet
	}

	return dataerror.RemoteUnknown
}
