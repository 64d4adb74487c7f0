package distill

import (
	"net/url"
	"strings"
)

// Canonicalize normalizes a URL so that equivalent URLs map to the same
// visited-set entry. The rule is:
//   - scheme and host are lowercased
//   - the fragment is dropped
//   - the query is dropped (documentation sites use it for highlight state)
//   - a trailing slash on a non-root path is removed
//   - an empty path becomes "/"
//
// Returns an error for unparsable or non-absolute URLs.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawQuery = ""
	u.User = nil

	switch u.Path {
	case "", "/":
		u.Path = "/"
	default:
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}
