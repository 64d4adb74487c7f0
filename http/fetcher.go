// Package http provides an HTTP-based implementation of distill.Fetcher
// for retrieving documentation pages from static sites.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize limits the response body size. 5MB is ample for HTML
// pages while bounding memory on unexpectedly large responses.
const DefaultMaxBodySize = 5 * 1024 * 1024

// Ensure Fetcher implements distill.Fetcher at compile time.
var _ distill.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over HTTP and extracts their outbound links.
// It does not execute JavaScript and is suitable for static sites.
type Fetcher struct {
	client      *http.Client
	links       distill.LinkExtractor
	timeout     time.Duration
	maxBodySize int64
	userAgent   string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize caps the number of response bytes read per page.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher. Outbound links are extracted
// from HTML responses using the given LinkExtractor; non-HTML responses
// yield no links.
func NewFetcher(links distill.LinkExtractor, opts ...Option) *Fetcher {
	f := &Fetcher{
		links:       links,
		timeout:     DefaultFetchTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*distill.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")

	result := &distill.FetchResult{
		URL:         url,
		Content:     body,
		ContentType: contentType,
	}

	// Only HTML carries followable links. Link extraction failures are not
	// fetch failures; the page content is still usable.
	if f.links != nil && strings.HasPrefix(contentType, "text/html") {
		if links, err := f.links.ExtractLinks(string(body), url); err == nil {
			result.Links = links
		}
	}

	return result, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
