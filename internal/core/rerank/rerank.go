// Package rerank reorders an initial candidate set, either through an
// external relevance judge or a local keyword-density heuristic. Judge
// failures are absorbed: the caller always gets a usable ordering back.
package rerank

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/ports"
)

const (
	// excerptChars caps the candidate text submitted to the judge.
	excerptChars = 200
	// rankDecay preserves a relative ordering signal after reordering:
	// score *= 1 - rankDecay*newIndex.
	rankDecay = 0.02
)

// Rerank reorders chunks by relevance to the query. With a judge configured
// it requests an index permutation and remaps; on any judge error the input
// is returned unchanged. Without a judge the local heuristic applies.
func Rerank(ctx context.Context, judge ports.RelevanceJudge, query string, chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	if len(chunks) < 2 {
		return chunks
	}
	if judge == nil {
		return heuristic(query, chunks)
	}

	excerpts := make([]string, len(chunks))
	for i, c := range chunks {
		excerpts[i] = excerpt(c.Text)
	}

	indices, err := judge.Judge(ctx, query, excerpts)
	if err != nil {
		slog.Warn("rerank_judge_failed", "error", err)
		return chunks
	}

	out := make([]domain.RetrievedChunk, 0, len(indices))
	for newIdx, i := range indices {
		if i < 0 || i >= len(chunks) {
			continue
		}
		c := chunks[i]
		c.Rank = len(out) + 1
		c.Score = c.Score * (1 - rankDecay*float64(newIdx))
		out = append(out, c)
	}
	if len(out) == 0 {
		return chunks
	}
	return out
}

// heuristic rescores each chunk as 0.8*original + 0.2*queryWordDensity,
// where density is the fraction of chunk words exactly matching a query word.
func heuristic(query string, chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	queryWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = struct{}{}
	}

	out := make([]domain.RetrievedChunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		words := strings.Fields(strings.ToLower(out[i].Text))
		matched := 0
		for _, w := range words {
			if _, ok := queryWords[w]; ok {
				matched++
			}
		}
		density := 0.0
		if len(words) > 0 {
			density = float64(matched) / float64(len(words))
		}
		out[i].Score = out[i].Score*0.8 + density*0.2
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func excerpt(text string) string {
	if len(text) <= excerptChars {
		return text
	}
	return text[:excerptChars]
}
