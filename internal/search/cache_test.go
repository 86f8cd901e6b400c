package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_CanonicalizesEquivalentSearches(t *testing.T) {
	a := Key("Noise", Options{Category: "chop", Tags: []string{"B", "a"}, Limit: 10})
	b := Key("  noise ", Options{Category: "CHOP", Tags: []string{"a", "b"}, Limit: 10})
	assert.Equal(t, a, b)
}

func TestKey_DistinguishesDifferentSearches(t *testing.T) {
	base := Key("noise", Options{Limit: 10})
	assert.NotEqual(t, base, Key("blur", Options{Limit: 10}))
	assert.NotEqual(t, base, Key("noise", Options{Limit: 20}))
	assert.NotEqual(t, base, Key("noise", Options{Limit: 10, Category: "TOP"}))
	assert.NotEqual(t, base, Key("noise", Options{Limit: 10, Fuzzy: true}))
}

func TestResultCache_PutGet(t *testing.T) {
	c := NewResultCache(4)
	resp := &Response{TotalResults: 2}

	key := Key("noise", Options{Limit: 10})
	c.Put(key, resp)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Same(t, resp, got)

	_, ok = c.Get(Key("blur", Options{Limit: 10}))
	assert.False(t, ok)
}

func TestResultCache_InvalidateAll(t *testing.T) {
	c := NewResultCache(4)
	c.Put(Key("noise", Options{}), &Response{})
	c.Put(Key("blur", Options{}), &Response{})

	c.InvalidateAll()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(Key("noise", Options{}))
	assert.False(t, ok)
}

func TestResultCache_BoundedEviction(t *testing.T) {
	c := NewResultCache(2)
	c.Put("a", &Response{})
	c.Put("b", &Response{})
	c.Put("c", &Response{})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
}
