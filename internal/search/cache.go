package search

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache memoizes search responses keyed by the canonical form of
// (query, options). Any index mutation invalidates the whole cache; no
// stale result can outlive the write that obsoleted it.
type ResultCache struct {
	cache *lru.Cache[string, *Response]
}

// NewResultCache creates a cache holding up to size responses.
func NewResultCache(size int) *ResultCache {
	if size <= 0 {
		size = 256
	}
	cache, _ := lru.New[string, *Response](size)
	return &ResultCache{cache: cache}
}

// Key builds the canonical cache key. Equivalent searches (same query,
// same options in any tag order) produce the same key.
func Key(query string, opts Options) string {
	tags := make([]string, len(opts.Tags))
	for i, t := range opts.Tags {
		tags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	sort.Strings(tags)

	return fmt.Sprintf("q=%s|c=%s|t=%s|l=%d|f=%t",
		strings.ToLower(strings.TrimSpace(query)),
		strings.ToUpper(strings.TrimSpace(opts.Category)),
		strings.Join(tags, ","),
		opts.Limit,
		opts.Fuzzy,
	)
}

// Get returns the cached response for a key, if present. Responses are
// shared; callers must not mutate them.
func (c *ResultCache) Get(key string) (*Response, bool) {
	return c.cache.Get(key)
}

// Put stores a response under a key.
func (c *ResultCache) Put(key string, resp *Response) {
	c.cache.Add(key, resp)
}

// InvalidateAll drops every cached response.
func (c *ResultCache) InvalidateAll() {
	c.cache.Purge()
}

// Len reports the number of cached responses.
func (c *ResultCache) Len() int {
	return c.cache.Len()
}
