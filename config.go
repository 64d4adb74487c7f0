package distill

import (
	"net/url"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultMaxDepth bounds the crawl to the seed page and its direct links.
	DefaultMaxDepth = 1

	// DefaultConcurrency is the number of concurrent fetch+distill pipelines.
	DefaultConcurrency = 5

	// DefaultDistillTimeout is the per-page budget for the language model call.
	DefaultDistillTimeout = 120 * time.Second

	// DefaultRequestsPerSecond is the per-domain politeness limit.
	DefaultRequestsPerSecond = 2.0
)

// Config holds the immutable configuration for a single crawl run.
// It is validated once before crawling begins and never mutated afterwards.
type Config struct {
	// SeedURL is the starting point of the crawl. Required.
	SeedURL string

	// MaxDepth is the maximum link distance from the seed. The seed itself
	// is at depth 0.
	MaxDepth int

	// AllowedDomains lists hosts eligible for crawling. A URL is admitted
	// when its host equals or is a subdomain of an entry. When empty, the
	// seed's host is used.
	AllowedDomains []string

	// URLPatterns are glob patterns matched against URL paths. `*` matches
	// any run of characters (including `/`), `?` matches a single character.
	// An empty list admits all paths.
	URLPatterns []string

	// AllowedContentTypes lists acceptable MIME primary types
	// (e.g., "text/html"). When empty, "text/html" is assumed.
	AllowedContentTypes []string

	// IncludeExternal admits URLs outside AllowedDomains when true.
	IncludeExternal bool

	// Concurrency bounds the number of in-flight fetch+distill pipelines.
	Concurrency int

	// DistillTimeout bounds each language model call.
	DistillTimeout time.Duration

	// RequestsPerSecond limits fetches per domain.
	RequestsPerSecond float64

	// UseSitemap seeds the frontier from the site's sitemap in addition
	// to the seed URL.
	UseSitemap bool
}

// Validate returns an error if the configuration cannot support a crawl run.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(c.SeedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Errorf(EINVALID, "invalid seed URL %q", c.SeedURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL scheme must be http or https, got %q", u.Scheme)
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative")
	}
	if len(c.AllowedDomains) > 0 && !c.IncludeExternal && !domainAllowed(u.Hostname(), c.AllowedDomains) {
		return Errorf(EINVALID, "seed host %q is not covered by the allowed domains", u.Hostname())
	}
	return nil
}

// WithDefaults returns a copy of the config with zero values replaced by
// defaults. The seed's host becomes the allowed domain when none is set.
func (c Config) WithDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.DistillTimeout <= 0 {
		c.DistillTimeout = DefaultDistillTimeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if len(c.AllowedContentTypes) == 0 {
		c.AllowedContentTypes = []string{"text/html"}
	}
	if len(c.AllowedDomains) == 0 {
		if u, err := url.Parse(c.SeedURL); err == nil {
			c.AllowedDomains = []string{u.Hostname()}
		}
	}
	return c
}

// domainAllowed reports whether host equals or is a subdomain of any entry.
func domainAllowed(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
