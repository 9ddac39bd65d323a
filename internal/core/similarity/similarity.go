// Package similarity provides the two interchangeable relevance scorers:
// vector cosine similarity and a lexical overlap measure used whenever
// embeddings are unavailable.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

// Cosine is the normalized dot product of two equal-length vectors. It
// returns 0 on length mismatch or when either vector has zero magnitude.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// Lexical scores query/text relevance from token overlap:
// 0.7*matchRatio + 0.3*jaccard. Tokens are lowercased alphanumeric words
// longer than two characters with stop words removed.
func Lexical(query, text string) float64 {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := Tokenize(text)

	textSet := make(map[string]struct{}, len(textTokens))
	for _, token := range textTokens {
		textSet[token] = struct{}{}
	}

	matches := 0
	union := make(map[string]struct{}, len(queryTokens)+len(textTokens))
	for _, token := range queryTokens {
		if _, ok := textSet[token]; ok {
			matches++
		}
		union[token] = struct{}{}
	}
	for token := range textSet {
		union[token] = struct{}{}
	}

	matchRatio := float64(matches) / float64(len(queryTokens))
	jaccard := float64(matches) / float64(len(union))
	return matchRatio*0.7 + jaccard*0.3
}

// TextOverlap is the word-overlap ratio used by MMR when embeddings are
// missing: shared words over max(|words a|, |distinct words b|). Its range
// differs from cosine, which skews the MMR trade-off in lexical-only runs;
// that asymmetry is intentional and documented rather than corrected.
func TextOverlap(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	overlap := 0
	for _, w := range wordsA {
		if _, ok := setB[w]; ok {
			overlap++
		}
	}

	denom := len(wordsA)
	if len(setB) > denom {
		denom = len(setB)
	}
	if denom == 0 {
		return 0
	}
	return float64(overlap) / float64(denom)
}

// Tokenize lowercases, strips non-alphanumerics, and drops short tokens and
// stop words.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	out := make([]string, 0, len(fields))
	for _, token := range fields {
		if len(token) <= 2 {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		out = append(out, token)
	}
	return out
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
		"her", "was", "one", "our", "out", "has", "have", "been", "some", "them",
		"than", "its", "over", "such", "that", "this", "with", "will", "each",
		"from", "they", "what", "which", "their", "said", "who", "does", "shall",
		"must", "may", "should", "would", "could", "into", "about", "under",
	} {
		stopWords[w] = struct{}{}
	}
}
