package discovery

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"slices"
	"sort"
	"strings"
)

// NormalizeURL returns the canonical form of a collected URL. Two URLs with
// the same canonical form end up as the same destination, so only the first
// one seen is kept:
//   - scheme and host are lower-cased, a trailing dot on the host is dropped
//   - default ports (http:80, https:443) are removed
//   - the path is cleaned, an empty path becomes "/" and trailing slashes go
//   - query parameters are sorted by key and value
//   - the fragment is removed
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("could not parse URL: %w", err)
	}

	u.Scheme = strings.ToLower(u.Scheme)

	host, port := strings.ToLower(u.Host), ""
	if h, p, err := net.SplitHostPort(host); err == nil {
		host, port = h, p
	}
	host = strings.TrimSuffix(host, ".")
	switch {
	case port == "",
		u.Scheme == "http" && port == "80",
		u.Scheme == "https" && port == "443":
		u.Host = host
		if strings.Contains(host, ":") && !strings.HasPrefix(host, "[") {
			u.Host = "[" + host + "]"
		}
	default:
		u.Host = net.JoinHostPort(host, port)
	}

	p := "/"
	if u.Path != "" {
		p = path.Clean("/" + u.Path)
	}
	u.Path, u.RawPath = p, ""

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			sort.Strings(q[k])
		}
		// Encode sorts keys
		u.RawQuery = q.Encode()
	}
	u.Fragment, u.RawFragment = "", ""

	return u.String(), nil
}

// urlSet collects URLs in first-seen form, de-duplicated by NormalizeURL.
type urlSet struct {
	seen map[string]struct{}
	urls []string
}

func newURLSet() *urlSet {
	return &urlSet{seen: map[string]struct{}{}}
}

// add reports whether raw was new.
func (s *urlSet) add(raw string) bool {
	key, err := NormalizeURL(raw)
	if err != nil {
		key = raw
	}
	if _, ok := s.seen[key]; ok {
		return false
	}

	s.seen[key] = struct{}{}
	s.urls = append(s.urls, raw)

	return true
}

// sorted returns the URLs in lexical order.
func (s *urlSet) sorted() []string {
	out := slices.Clone(s.urls)
	slices.Sort(out)

	return out
}
