package simplenotes

import (
	"net/url"
	"strings"
)

// PublicURL joins a public base URL and a blob key, escaping each key
// segment. The base is expected without a trailing slash.
func PublicURL(baseURL, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return baseURL + "/" + strings.Join(segments, "/")
}
