package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// ignoreCacheEntry holds cached ignore patterns with metadata
type ignoreCacheEntry struct {
	patterns []string
	modTime  time.Time
}

// Global cache for ignore files
var (
	ignoreCache = make(map[string]*ignoreCacheEntry)
	cacheMutex  sync.RWMutex
)

// IgnoreFileName is the optional file inside a root folder listing extra ignore patterns.
// They only filter the folder that contains the file, not other roots or archives.
const IgnoreFileName = ".resman-ignore"

// GetIgnorePatterns reads the patterns of the ignore file inside root.
// If the file does not exist, it returns an empty pattern list.
func GetIgnorePatterns(fs afero.Fs, root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFileName)

	fileInfo, err := fs.Stat(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error checking %s: %w", IgnoreFileName, err)
	}

	cacheMutex.RLock()
	if cached, exists := ignoreCache[ignorePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.patterns, nil
		}
	}
	cacheMutex.RUnlock()

	patterns, err := readIgnoreFile(fs, ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	cacheMutex.Lock()
	ignoreCache[ignorePath] = &ignoreCacheEntry{
		patterns: patterns,
		modTime:  fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return patterns, nil
}

// IsHidden reports whether a directory entry name is hidden ("." prefix).
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// readIgnoreFile returns the non-empty, non-comment lines of an ignore file.
func readIgnoreFile(fs afero.Fs, ignorePath string) ([]string, error) {
	content, err := afero.ReadFile(fs, ignorePath)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsIgnored checks if an entry name or its relative path matches any of the patterns.
// Patterns ending with "/" ignore a whole directory prefix.
func IsIgnored(name string, relativePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, _ := filepath.Match(pattern, name); match {
			return true
		}
		if match, _ := filepath.Match(pattern, relativePath); match {
			return true
		}
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(relativePath+"/", pattern) {
			return true
		}
	}
	return false
}

// ClearIgnoreCache clears all cached ignore patterns
func ClearIgnoreCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	ignoreCache = make(map[string]*ignoreCacheEntry)
}

// GetIgnoreCacheStats returns statistics about the ignore pattern cache
func GetIgnoreCacheStats() map[string]interface{} {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	stats := make(map[string]interface{})
	stats["cached_files"] = len(ignoreCache)
	stats["cache_entries"] = make([]string, 0, len(ignoreCache))

	for path := range ignoreCache {
		stats["cache_entries"] = append(stats["cache_entries"].([]string), path)
	}

	return stats
}
