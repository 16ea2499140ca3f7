// Package objectkey parses the path structure embedded in storage object
// keys. Upload keys follow the form <prefix>/<id>/<filename>, where the
// second segment carries either a client correlation id (probe uploads) or a
// person slug (indexed uploads).
package objectkey

import (
	"net/url"
	"strings"
)

// Decode reverses the percent-encoding applied to object keys in bucket
// notifications. '+' decodes to a space, matching form-style encoding.
func Decode(raw string) (string, error) {
	return url.QueryUnescape(raw)
}

// ExternalID returns the final path segment of a key, used as the external
// image id when registering faces with the recognition service.
func ExternalID(key string) string {
	parts := strings.Split(key, "/")
	return parts[len(parts)-1]
}

// CorrelationID returns the second path segment of a key. The second return
// is false when the key has fewer than three segments or the segment is
// empty.
func CorrelationID(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Slug returns the person identifier embedded in a stored upload key. It is
// the same path position as the correlation id, read from a different kind
// of key.
func Slug(key string) (string, bool) {
	return CorrelationID(key)
}
