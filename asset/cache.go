package asset

import (
	"sync"
	"sync/atomic"
)

// FormatCache holds parsed snapshots per source path for the lifetime of the
// open root folder.
type FormatCache struct {
	mu      sync.RWMutex
	entries map[string]*Resolved
}

func NewFormatCache() *FormatCache {
	return &FormatCache{entries: make(map[string]*Resolved)}
}

func (c *FormatCache) Get(path string) (*Resolved, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[path]
	return r, ok
}

func (c *FormatCache) Put(path string, r *Resolved) {
	c.mu.Lock()
	c.entries[path] = r
	c.mu.Unlock()
}

// Clear drops every entry. Called when a different root folder is opened.
func (c *FormatCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Resolved)
	c.mu.Unlock()
}

func (c *FormatCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ThumbnailCache maps a file path to the display source of its thumbnail.
// Entries live for the whole process.
type ThumbnailCache struct {
	cache sync.Map // map[string]string
	count atomic.Int64
}

var (
	thumbnails     *ThumbnailCache
	thumbnailsOnce sync.Once
)

// SharedThumbnails returns the process-wide thumbnail cache.
func SharedThumbnails() *ThumbnailCache {
	thumbnailsOnce.Do(func() {
		thumbnails = &ThumbnailCache{}
	})
	return thumbnails
}

func (c *ThumbnailCache) Load(path string) (string, bool) {
	if v, ok := c.cache.Load(path); ok {
		return v.(string), true
	}
	return "", false
}

func (c *ThumbnailCache) Store(path, source string) {
	if path == "" || source == "" {
		return
	}
	if _, loaded := c.cache.Swap(path, source); !loaded {
		c.count.Add(1)
	}
}

func (c *ThumbnailCache) Len() int {
	return int(c.count.Load())
}

// URLCache memoizes path to display URL conversions. Paths are assumed to be
// stable while a root is open, so nothing is ever evicted.
type URLCache struct {
	conv  PathConverter
	cache sync.Map // map[string]string
}

func NewURLCache(conv PathConverter) *URLCache {
	if conv == nil {
		conv = FileURLConverter{}
	}
	return &URLCache{conv: conv}
}

func (c *URLCache) Convert(path string) (string, error) {
	if v, ok := c.cache.Load(path); ok {
		return v.(string), nil
	}
	url, err := c.conv.DisplayURL(path)
	if err != nil {
		return "", err
	}
	c.cache.Store(path, url)
	return url, nil
}
