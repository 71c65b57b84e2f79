package normalize

import (
	"net/url"
	"strings"
)

// CanonicalURL reduces an apply URL to a stable identity form: lowercased
// scheme, host and path with the query string, fragment and trailing slash
// stripped. Unparseable input is lowercased as-is so the dedup key stays
// deterministic.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	canonical := strings.ToLower(u.Scheme + "://" + u.Host + u.Path)
	return strings.TrimRight(canonical, "/")
}
