// Package joinlink builds and parses the links students use to join a session.
package joinlink

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryParam carries the session id in a join link.
const QueryParam = "session"

// Build returns "<baseURL>?session=<sessionID>", keeping any existing query.
func Build(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}
	q := u.Query()
	q.Set(QueryParam, sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// SessionID extracts the session id from a join link or raw query string.
// Repeated parameters resolve to the first non-empty value.
func SessionID(link string) (string, bool) {
	raw := link
	if u, err := url.Parse(link); err == nil && (u.Scheme != "" || strings.HasPrefix(link, "?")) {
		raw = u.RawQuery
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "", false
	}
	for _, v := range values[QueryParam] {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}
