package index

import (
	"sort"

	"github.com/touchdocs/tdmcp/internal/docs"
)

// DocStore holds the full structured record for each indexed id.
// Documents live until an explicit re-index or clear; there is no
// automatic eviction.
type DocStore struct {
	byID map[string]*docs.Document
}

// NewDocStore creates an empty document store.
func NewDocStore() *DocStore {
	return &DocStore{byID: make(map[string]*docs.Document)}
}

// Put stores or replaces a document by id.
func (s *DocStore) Put(doc *docs.Document) {
	s.byID[doc.ID] = doc
}

// Get returns the document for id, or nil.
func (s *DocStore) Get(id string) *docs.Document {
	return s.byID[id]
}

// Has reports whether id is stored.
func (s *DocStore) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Delete removes a document by id.
func (s *DocStore) Delete(id string) {
	delete(s.byID, id)
}

// Len returns the number of stored documents.
func (s *DocStore) Len() int {
	return len(s.byID)
}

// IDs returns all stored ids in sorted order.
func (s *DocStore) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every stored document, ordered by id.
func (s *DocStore) All() []*docs.Document {
	out := make([]*docs.Document, 0, len(s.byID))
	for _, id := range s.IDs() {
		out = append(out, s.byID[id])
	}
	return out
}

// Clear drops every document.
func (s *DocStore) Clear() {
	s.byID = make(map[string]*docs.Document)
}
