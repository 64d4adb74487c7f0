package distill

import "context"

// SitemapService discovers page URLs from a site's sitemap.
type SitemapService interface {
	// DiscoverURLs finds URLs advertised by the site at baseURL, via
	// robots.txt Sitemap directives or the /sitemap.xml convention.
	// Returns an empty slice (not nil) when no sitemap exists.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
