package client

import (
	"fmt"
	"net/url"
	"strings"
)

// Join parses root and appends each segment to its path as one escaped path
// component. Empty segments are skipped, so Join(root, "", key) and
// Join(root, key) produce the same URL.
func Join(root string, segments ...string) (*url.URL, error) {
	u, err := parseRoot(root)
	if err != nil {
		return nil, err
	}

	p := strings.TrimSuffix(u.Path, "/")
	rawPath := strings.TrimSuffix(u.EscapedPath(), "/")
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		p += "/" + seg
		rawPath += "/" + url.PathEscape(seg)
	}
	u.Path = p
	u.RawPath = rawPath
	return u, nil
}

// parseRoot parses root and requires it to be absolute with a host.
func parseRoot(root string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(root))
	if err != nil {
		return nil, &Error{Code: ErrInvalidURL, Message: fmt.Sprintf("parsing %q", root), Err: err}
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, &Error{Code: ErrInvalidURL, Message: fmt.Sprintf("%q is not an absolute URL", root)}
	}
	return u, nil
}

// keyFromURL returns the last path segment of a paste URL.
func keyFromURL(u *url.URL) string {
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
