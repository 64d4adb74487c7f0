package distill

import (
	"mime"
	"net/url"
	"regexp"
	"strings"
)

// Filter decides whether discovered URLs and fetched content types are in
// scope for a crawl. All checks are pure functions of the immutable config
// captured at construction time.
//
// Checks run in order domain -> pattern -> content type, short-circuiting on
// the first failure. The content-type check requires a fetch, so AdmitURL
// exists separately for cheap pre-fetch rejection.
type Filter struct {
	domains         []string
	patterns        []*regexp.Regexp
	contentTypes    map[string]struct{}
	includeExternal bool
}

// NewFilter compiles a Filter from the config's filtering rules.
// Returns EINVALID if a URL pattern cannot be compiled.
func NewFilter(cfg Config) (*Filter, error) {
	f := &Filter{
		domains:         cfg.AllowedDomains,
		includeExternal: cfg.IncludeExternal,
		contentTypes:    make(map[string]struct{}, len(cfg.AllowedContentTypes)),
	}
	for _, pattern := range cfg.URLPatterns {
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid URL pattern %q: %v", pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}
	for _, ct := range cfg.AllowedContentTypes {
		f.contentTypes[strings.ToLower(strings.TrimSpace(ct))] = struct{}{}
	}
	return f, nil
}

// Admit reports whether a URL with a known content type is in scope.
func (f *Filter) Admit(rawURL, contentType string) bool {
	return f.AdmitURL(rawURL) && f.AdmitContentType(contentType)
}

// AdmitURL applies the pre-fetch checks: the host must be covered by the
// domain allow-list (unless external links are included), and the path must
// match at least one URL pattern when patterns are configured.
func (f *Filter) AdmitURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	if !f.includeExternal && !domainAllowed(u.Hostname(), f.domains) {
		return false
	}
	if len(f.patterns) == 0 {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(u.Path) {
			return true
		}
	}
	return false
}

// AdmitContentType reports whether the MIME type's primary token is in the
// allow-list. An unknown or unparsable content type is rejected.
func (f *Filter) AdmitContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := f.contentTypes[strings.ToLower(mediaType)]
	return ok
}

// compileGlob translates a glob pattern into an anchored regular expression.
// `*` matches any run of characters including path separators, `?` matches
// exactly one character; all other characters match literally.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
