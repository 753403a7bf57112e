package simplenotes

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

const (
	markdownExt = ".md"
	slugPrefix  = "file_"
	slugHashLen = 10
)

// GenerateSlug derives the storage key for a display name. The name gets a
// ".md" extension if it lacks one, the extension is stripped again, and the
// key is "file_" plus the first 10 hex digits of the MD5 of what remains.
// "hello" and "hello.md" map to the same key.
func GenerateSlug(displayName string) string {
	name := EnsureMarkdownExt(displayName)
	stem, _ := splitExt(name)
	sum := md5.Sum([]byte(stem))
	return slugPrefix + hex.EncodeToString(sum[:])[:slugHashLen] + markdownExt
}

// EnsureMarkdownExt appends ".md" unless the name already ends with it,
// ignoring case.
func EnsureMarkdownExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), markdownExt) {
		return name
	}
	return name + markdownExt
}

// TrimMarkdownExt removes a trailing ".md", ignoring case.
func TrimMarkdownExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), markdownExt) {
		return name[:len(name)-len(markdownExt)]
	}
	return name
}

// splitExt splits off the final extension of the last path element. Leading
// dots of the element do not start an extension, so ".md" has none.
func splitExt(p string) (string, string) {
	sep := strings.LastIndex(p, "/")
	dot := strings.LastIndex(p, ".")
	if dot <= sep {
		return p, ""
	}
	for i := sep + 1; i < dot; i++ {
		if p[i] != '.' {
			return p[:dot], p[dot:]
		}
	}
	return p, ""
}
