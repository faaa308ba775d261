package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-synth/synth"
)

// Library loads samples lazily and caches them by resolved path. Cached
// entries are evicted least-recently-used when a byte budget is set; eviction
// only drops the cache reference, outstanding handles stay valid because
// sample data is immutable and shared.
type Library struct {
	cache       map[string]*cachedSample
	searchPaths []string
	maxBytes    int
	totalBytes  int
}

type cachedSample struct {
	data       *synth.SampleData
	bytes      int
	lastAccess time.Time
}

// NewLibrary creates a library with an unlimited cache and default search
// paths.
func NewLibrary() *Library {
	return &Library{
		cache:       make(map[string]*cachedSample),
		searchPaths: []string{"samples", filepath.Join("assets", "samples"), "."},
	}
}

// NewLibraryWithLimit creates a library whose cache is bounded to roughly
// maxMegabytes of sample memory.
func NewLibraryWithLimit(maxMegabytes int) *Library {
	l := NewLibrary()
	l.maxBytes = maxMegabytes << 20
	return l
}

// AddSearchPath appends a directory to probe when resolving names.
func (l *Library) AddSearchPath(dir string) {
	l.searchPaths = append(l.searchPaths, dir)
}

// Load returns the sample for name, loading it on first use. Names may be
// absolute paths, relative paths, or bare filenames resolved against the
// search paths.
func (l *Library) Load(name string, baseFrequency float32) (*synth.SampleData, error) {
	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	if entry, ok := l.cache[path]; ok {
		entry.lastAccess = time.Now()
		return entry.data, nil
	}

	data, err := LoadWAV(path, baseFrequency)
	if err != nil {
		return nil, err
	}

	bytes := data.Len() * 4
	l.evictFor(bytes)
	l.cache[path] = &cachedSample{data: data, bytes: bytes, lastAccess: time.Now()}
	l.totalBytes += bytes
	return data, nil
}

// CachedCount returns the number of samples currently cached.
func (l *Library) CachedCount() int {
	return len(l.cache)
}

// CachedBytes returns the approximate cache memory in bytes.
func (l *Library) CachedBytes() int {
	return l.totalBytes
}

// Clear drops every cache entry.
func (l *Library) Clear() {
	l.cache = make(map[string]*cachedSample)
	l.totalBytes = 0
}

func (l *Library) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}
	for _, dir := range l.searchPaths {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("sample %q not found in search paths", name)
}

func (l *Library) evictFor(incoming int) {
	if l.maxBytes <= 0 {
		return
	}
	for l.totalBytes+incoming > l.maxBytes && len(l.cache) > 0 {
		var oldestKey string
		var oldest time.Time
		first := true
		for key, entry := range l.cache {
			if first || entry.lastAccess.Before(oldest) {
				oldestKey = key
				oldest = entry.lastAccess
				first = false
			}
		}
		l.totalBytes -= l.cache[oldestKey].bytes
		delete(l.cache, oldestKey)
	}
}
