package orderparse

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the exclusive lower bound a similarity score must
// exceed for a fuzzy match to be accepted.
const SimilarityThreshold = 0.6

// Similarity returns 1 - distance/maxLen for two strings, lengths in runes.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-d) / float64(maxLen)
}

// Match resolves a free-text product name against catalog.
// Tiers are tried in order: exact (case-insensitive, trimmed), substring in
// either direction, then edit-distance similarity above SimilarityThreshold.
// Within each tier the first catalog entry wins, and a later similarity score
// only replaces the best one when strictly greater.
func Match(name string, catalog []CatalogEntry) (CatalogEntry, bool) {
	needle := normalize(name)
	if needle == "" {
		return CatalogEntry{}, false
	}

	for _, e := range catalog {
		if normalize(e.Name) == needle {
			return e, true
		}
	}

	for _, e := range catalog {
		cand := normalize(e.Name)
		if cand == "" {
			continue
		}
		if strings.Contains(cand, needle) || strings.Contains(needle, cand) {
			return e, true
		}
	}

	bestIdx, bestScore := -1, 0.0
	for i, e := range catalog {
		score := Similarity(needle, normalize(e.Name))
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx >= 0 && bestScore > SimilarityThreshold {
		return catalog[bestIdx], true
	}
	return CatalogEntry{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
