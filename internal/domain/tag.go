package domain

import (
	"net/url"
	"strings"
)

// NormalizeTag puts a player or tournament tag into canonical form: trimmed,
// upper-cased, with the leading '#'. Every cache key derivation and upstream
// request goes through this so "#ABC123" and "abc123" never diverge.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return tag
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

// EncodeTag percent-encodes a normalized tag for use in an upstream URL
// path, '#' included.
func EncodeTag(tag string) string {
	return url.PathEscape(NormalizeTag(tag))
}
