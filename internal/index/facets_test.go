package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/touchdocs/tdmcp/internal/docs"
)

func TestFacetTracker_AddRemove(t *testing.T) {
	f := NewFacetTracker()
	f.Add(docs.CategoryCHOP)
	f.Add(docs.CategoryCHOP)
	f.Add(docs.CategoryTOP)

	assert.Equal(t, map[string]int{"CHOP": 2, "TOP": 1}, f.Counts())
	assert.Equal(t, 3, f.Total())

	f.Remove(docs.CategoryCHOP)
	assert.Equal(t, map[string]int{"CHOP": 1, "TOP": 1}, f.Counts())
}

func TestFacetTracker_RemovePrunesZero(t *testing.T) {
	f := NewFacetTracker()
	f.Add(docs.CategoryTOP)
	f.Remove(docs.CategoryTOP)

	assert.Empty(t, f.Counts())
	assert.Equal(t, 0, f.Total())
}

func TestFacetTracker_RemoveUnknownIsNoop(t *testing.T) {
	f := NewFacetTracker()
	f.Remove(docs.CategorySOP)
	assert.Equal(t, 0, f.Total())
}

func TestFacetTracker_SumEqualsDocStoreCount(t *testing.T) {
	f := NewFacetTracker()
	store := NewDocStore()

	add := func(id string, cat docs.Category) {
		store.Put(&docs.Document{ID: id, Name: id, Category: cat})
		f.Add(cat)
	}
	remove := func(id string) {
		f.Remove(store.Get(id).Category)
		store.Delete(id)
	}

	add("noise_chop", docs.CategoryCHOP)
	add("noise_top", docs.CategoryTOP)
	add("blur_top", docs.CategoryTOP)
	assert.Equal(t, store.Len(), f.Total())

	remove("noise_top")
	assert.Equal(t, store.Len(), f.Total())

	remove("noise_chop")
	remove("blur_top")
	assert.Equal(t, store.Len(), f.Total())
	assert.Equal(t, 0, f.Total())
}
