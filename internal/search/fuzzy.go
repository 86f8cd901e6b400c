package search

import (
	"github.com/touchdocs/tdmcp/internal/index"
)

// maxFuzzyExpansions caps how many index terms one query term may
// expand to, keeping worst-case query cost bounded.
const maxFuzzyExpansions = 8

// expandTerm returns index terms that approximately match term: terms
// sharing a prefix, plus terms within edit distance one. The input term
// itself is excluded. Results follow index term order (sorted), capped
// at maxFuzzyExpansions.
func expandTerm(term string, ix *index.InvertedIndex) []string {
	if len(term) < 2 {
		return nil
	}

	var out []string
	for _, candidate := range ix.Terms() {
		if candidate == term {
			continue
		}
		if hasPrefixEither(candidate, term) || editDistanceAtMostOne(candidate, term) {
			out = append(out, candidate)
			if len(out) >= maxFuzzyExpansions {
				break
			}
		}
	}
	return out
}

func hasPrefixEither(a, b string) bool {
	if len(a) < len(b) {
		a, b = b, a
	}
	// Prefixes shorter than 3 match too much to be useful.
	return len(b) >= 3 && a[:len(b)] == b
}

// editDistanceAtMostOne reports whether a and b differ by at most one
// substitution, insertion or deletion. Short-circuits without building
// a distance matrix.
func editDistanceAtMostOne(a, b string) bool {
	la, lb := len(a), len(b)
	if la > lb {
		a, b, la, lb = b, a, lb, la
	}
	if lb-la > 1 {
		return false
	}

	if la == lb {
		diffs := 0
		for i := 0; i < la; i++ {
			if a[i] != b[i] {
				diffs++
				if diffs > 1 {
					return false
				}
			}
		}
		return true
	}

	// Lengths differ by one: a must equal b with one byte removed.
	i, j := 0, 0
	skipped := false
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		j++
	}
	return true
}
