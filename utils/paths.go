package utils

import (
	"strings"
)

// Combine joins path components with "/", skipping empty components.
func Combine(components ...string) string {
	var builder strings.Builder
	for _, component := range components {
		if component == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte('/')
		}
		builder.WriteString(component)
	}
	return builder.String()
}

// Basename returns everything after the last "/" of path.
func Basename(path string) string {
	if pos := strings.LastIndexByte(path, '/'); pos >= 0 {
		return path[pos+1:]
	}
	return path
}

// NormalizeSeparators converts backslashes to "/", collapses repeated separators and
// drops leading "./" and "/" so that keys built from different spellings compare equal.
func NormalizeSeparators(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return strings.TrimPrefix(path, "/")
}
