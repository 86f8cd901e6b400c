package index

import (
	"sort"
)

// Field names an indexed document field. Field identity is kept on every
// posting so the scorer can weight a name hit above a description hit.
type Field string

const (
	FieldName        Field = "name"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
	FieldParameter   Field = "parameter"
	FieldKeyword     Field = "keyword"
	FieldContent     Field = "content"
)

// FieldTexts carries the raw text of each named field for one document.
type FieldTexts map[Field]string

// Posting records one document's occurrences of a term within a field.
type Posting struct {
	DocID     string `json:"doc"`
	Field     Field  `json:"field"`
	Frequency int    `json:"freq"`
}

// InvertedIndex maps normalized terms to per-document, per-field
// frequencies. A term exists iff at least one currently indexed document
// contains it; removing the last referencing document prunes the term.
type InvertedIndex struct {
	analyzer *Analyzer

	// term -> docID -> field -> frequency
	postings map[string]map[string]map[Field]int
}

// NewInvertedIndex creates an empty index using the given analyzer.
func NewInvertedIndex(analyzer *Analyzer) *InvertedIndex {
	return &InvertedIndex{
		analyzer: analyzer,
		postings: make(map[string]map[string]map[Field]int),
	}
}

// Add indexes every named field of a document. Callers updating an
// existing id must Remove first; Add does not deduplicate across calls.
func (ix *InvertedIndex) Add(id string, fields FieldTexts) {
	for field, text := range fields {
		// Malformed sources occasionally produce non-text values that the
		// loader coerces to ""; an empty field simply contributes nothing.
		for _, term := range ix.analyzer.Normalize(text) {
			byDoc, ok := ix.postings[term]
			if !ok {
				byDoc = make(map[string]map[Field]int)
				ix.postings[term] = byDoc
			}
			byField, ok := byDoc[id]
			if !ok {
				byField = make(map[Field]int)
				byDoc[id] = byField
			}
			byField[field]++
		}
	}
}

// PreparedDoc holds per-field term frequencies computed ahead of
// insertion, so analysis can run concurrently while insertion stays
// serialized.
type PreparedDoc map[Field]map[string]int

// Prepare analyzes every field into term frequencies without touching
// the index. Safe to call concurrently.
func (ix *InvertedIndex) Prepare(fields FieldTexts) PreparedDoc {
	prepared := make(PreparedDoc, len(fields))
	for field, text := range fields {
		terms := ix.analyzer.Normalize(text)
		if len(terms) == 0 {
			continue
		}
		freqs := make(map[string]int, len(terms))
		for _, term := range terms {
			freqs[term]++
		}
		prepared[field] = freqs
	}
	return prepared
}

// AddPrepared inserts frequencies produced by Prepare. Same contract as
// Add: callers updating an existing id must Remove first.
func (ix *InvertedIndex) AddPrepared(id string, prepared PreparedDoc) {
	for field, freqs := range prepared {
		for term, n := range freqs {
			byDoc, ok := ix.postings[term]
			if !ok {
				byDoc = make(map[string]map[Field]int)
				ix.postings[term] = byDoc
			}
			byField, ok := byDoc[id]
			if !ok {
				byField = make(map[Field]int)
				byDoc[id] = byField
			}
			byField[field] += n
		}
	}
}

// Remove deletes every posting referencing id and prunes terms left with
// zero postings.
func (ix *InvertedIndex) Remove(id string) {
	for term, byDoc := range ix.postings {
		if _, ok := byDoc[id]; !ok {
			continue
		}
		delete(byDoc, id)
		if len(byDoc) == 0 {
			delete(ix.postings, term)
		}
	}
}

// Postings returns every (doc, field, frequency) for an exact normalized
// term, sorted by doc id then field for deterministic iteration. Unknown
// terms return an empty slice.
func (ix *InvertedIndex) Postings(term string) []Posting {
	byDoc, ok := ix.postings[term]
	if !ok {
		return nil
	}
	out := make([]Posting, 0, len(byDoc))
	for id, byField := range byDoc {
		for field, freq := range byField {
			out = append(out, Posting{DocID: id, Field: field, Frequency: freq})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocID != out[j].DocID {
			return out[i].DocID < out[j].DocID
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// DocumentFrequency returns the count of distinct documents containing
// the term.
func (ix *InvertedIndex) DocumentFrequency(term string) int {
	return len(ix.postings[term])
}

// HasTerm reports whether the term has at least one posting.
func (ix *InvertedIndex) HasTerm(term string) bool {
	return len(ix.postings[term]) > 0
}

// Terms returns all indexed terms in sorted order.
func (ix *InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(ix.postings))
	for t := range ix.postings {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// TermCount returns the number of distinct indexed terms.
func (ix *InvertedIndex) TermCount() int {
	return len(ix.postings)
}

// Clear drops every posting.
func (ix *InvertedIndex) Clear() {
	ix.postings = make(map[string]map[string]map[Field]int)
}

// Analyzer exposes the index's analyzer so queries normalize through the
// identical pipeline the documents did.
func (ix *InvertedIndex) Analyzer() *Analyzer {
	return ix.analyzer
}
