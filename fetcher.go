package distill

import "context"

// Fetcher resolves a URL to raw page content, its content type, and the
// page's outbound links. Implementations hide transport details, link
// extraction, and response-size limits.
type Fetcher interface {
	// Fetch retrieves the page at the given URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// LinkExtractor parses HTML and returns outbound links as absolute URLs in
// document order. Relative hrefs are resolved against baseURL; non-HTTP
// schemes (javascript:, mailto:) are skipped.
type LinkExtractor interface {
	ExtractLinks(html string, baseURL string) ([]string, error)
}
