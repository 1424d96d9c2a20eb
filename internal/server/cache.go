package server

import (
	"strings"
	"time"

	"github.com/desertthunder/ytblog/internal/services"
	"github.com/desertthunder/ytblog/internal/tasks"
	"github.com/patrickmn/go-cache"
)

// ResultCache keeps recent pipeline results in memory.
//
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	cache *cache.Cache
}

// NewResultCache creates a cache whose entries expire after ttl, or nil when ttl is not positive.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		return nil
	}
	return &ResultCache{cache: cache.New(ttl, 2*ttl)}
}

// Get returns the cached result for videoURL.
func (c *ResultCache) Get(videoURL string) (*tasks.Result, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(cacheKey(videoURL))
	if !ok {
		return nil, false
	}
	res, ok := v.(*tasks.Result)
	return res, ok
}

// Set stores res under videoURL with the default expiration.
func (c *ResultCache) Set(videoURL string, res *tasks.Result) {
	if c == nil {
		return
	}
	c.cache.Set(cacheKey(videoURL), res, cache.DefaultExpiration)
}

// Len returns the number of unexpired entries.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}

// cacheKey collapses the different URL shapes of one video onto its ID.
func cacheKey(videoURL string) string {
	if id, err := services.ExtractVideoID(videoURL); err == nil {
		return "video:" + id
	}
	return "url:" + strings.TrimSpace(videoURL)
}
