package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio"

	"github.com/touchdocs/tdmcp/internal/docs"
	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// SnapshotVersion is the current snapshot file format version. The format
// is opaque to external consumers; no compatibility is promised beyond
// "produced and consumed by the same version of this component", so a
// mismatch is treated as no snapshot rather than a migration problem.
const SnapshotVersion = 1

// FacetPair is a (category, count) entry serialized as a two-element
// JSON array. Map-valued state goes to disk as ordered key-value pairs
// since the in-memory representation is not self-describing JSON.
type FacetPair struct {
	Category string
	Count    int
}

// MarshalJSON encodes the pair as ["CHOP", 12].
func (p FacetPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Category, p.Count})
}

// UnmarshalJSON decodes ["CHOP", 12].
func (p *FacetPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Category); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Count)
}

// Snapshot is the durable JSON representation of the index core.
type Snapshot struct {
	Version   int                  `json:"version"`
	SavedAt   time.Time            `json:"savedAt"`
	Terms     map[string][]Posting `json:"terms"`
	Documents []*docs.Document     `json:"documents"`
	Facets    []FacetPair          `json:"facets"`
}

// BuildSnapshot captures the current state of the index core.
func BuildSnapshot(ix *InvertedIndex, store *DocStore, facets *FacetTracker) *Snapshot {
	terms := make(map[string][]Posting, ix.TermCount())
	for _, term := range ix.Terms() {
		terms[term] = ix.Postings(term)
	}

	counts := facets.Counts()
	pairs := make([]FacetPair, 0, len(counts))
	for _, cat := range facets.Categories() {
		pairs = append(pairs, FacetPair{Category: cat, Count: counts[cat]})
	}

	return &Snapshot{
		Version:   SnapshotVersion,
		SavedAt:   time.Now().UTC(),
		Terms:     terms,
		Documents: store.All(),
		Facets:    pairs,
	}
}

// Restore replaces the contents of the index core with the snapshot's.
func (s *Snapshot) Restore(ix *InvertedIndex, store *DocStore, facets *FacetTracker) {
	ix.Clear()
	store.Clear()
	facets.Clear()

	for term, postings := range s.Terms {
		for _, p := range postings {
			byDoc, ok := ix.postings[term]
			if !ok {
				byDoc = make(map[string]map[Field]int)
				ix.postings[term] = byDoc
			}
			byField, ok := byDoc[p.DocID]
			if !ok {
				byField = make(map[Field]int)
				byDoc[p.DocID] = byField
			}
			byField[p.Field] = p.Frequency
		}
	}

	for _, d := range s.Documents {
		store.Put(d)
	}
	for _, p := range s.Facets {
		for i := 0; i < p.Count; i++ {
			facets.Add(docs.Category(p.Category))
		}
	}
}

// SaveSnapshot writes the snapshot atomically, holding a file lock
// against a second tdmcp process writing the same path.
func SaveSnapshot(path string, s *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite,
			fmt.Sprintf("create snapshot directory for %s", path), err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotLocked,
			fmt.Sprintf("lock snapshot %s", path), err)
	}
	if !locked {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotLocked,
			fmt.Sprintf("snapshot %s is locked by another process", path), nil)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.Marshal(s)
	if err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite,
			"encode snapshot", err)
	}

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return tderrors.PersistenceError(tderrors.ErrCodeSnapshotWrite,
			fmt.Sprintf("write snapshot %s", path), err)
	}
	return nil
}

// LoadSnapshot reads a snapshot from disk. A missing file returns
// (nil, nil): the caller starts with an empty index. Corrupt or
// version-mismatched files return a persistence error the caller should
// log and likewise treat as "no snapshot available".
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, tderrors.PersistenceError(tderrors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("read snapshot %s", path), err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, tderrors.PersistenceError(tderrors.ErrCodeSnapshotCorrupt,
			fmt.Sprintf("parse snapshot %s", path), err)
	}
	if s.Version != SnapshotVersion {
		return nil, tderrors.PersistenceError(tderrors.ErrCodeSnapshotVersion,
			fmt.Sprintf("snapshot %s has version %d, want %d", path, s.Version, SnapshotVersion), nil)
	}
	return &s, nil
}
