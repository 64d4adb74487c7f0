// Package goquery provides HTML link extraction using CSS selection.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure LinkExtractor implements distill.LinkExtractor at compile time.
var _ distill.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchor links from HTML in document order.
// Relative hrefs are resolved against the page URL; scope decisions
// (domain, pattern) are left to the frontier's filter.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks parses HTML and returns outbound links as absolute URLs.
// Duplicates keep their first occurrence; non-HTTP schemes (javascript:,
// mailto:, tel:, data:) are skipped.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}
		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if _, ok := seen[resolved]; ok {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// isNonHTTPLink reports whether href uses a scheme that cannot be crawled.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "ftp:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// Pure fragment references point back into the same page.
	return strings.HasPrefix(lower, "#")
}

// resolveURL resolves href against base, returning "" for unusable values.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}
	return resolved.String()
}
