// Package retrieval scores the corpus against a query and produces the
// ranked, thresholded, truncated result set for one retrieval method.
package retrieval

import (
	"math"
	"sort"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/similarity"
)

// mmrLambda balances relevance against redundancy in MMR selection.
const mmrLambda = 0.7

// Stats reports candidate counts before truncation.
type Stats struct {
	Scored         int
	AfterThreshold int
}

// Retrieve filters the corpus by sourcebook, scores every remaining chunk
// with the configured method, drops scores below the similarity threshold,
// truncates to TopK, and assigns 1-based ranks. For MMR the final order is
// its selection order, not pure score order.
func Retrieve(
	queryEmbedding []float64,
	queryText string,
	corpus []domain.DocumentChunk,
	cfg domain.RAGConfig,
) ([]domain.RetrievedChunk, Stats) {
	filtered := filterBySourcebook(corpus, cfg.SourcebookFilter)

	var scored []domain.RetrievedChunk
	switch cfg.RetrievalMethod {
	case domain.RetrievalMMR:
		scored = mmrRetrieval(queryEmbedding, queryText, filtered, cfg.TopK)
	case domain.RetrievalHybrid:
		scored = hybridRetrieval(queryEmbedding, queryText, filtered)
	case domain.RetrievalCosine:
		scored = cosineRetrieval(queryEmbedding, queryText, filtered)
	default:
		scored = cosineRetrieval(queryEmbedding, queryText, filtered)
	}

	thresholded := scored[:0:0]
	for _, c := range scored {
		if c.Score >= cfg.SimilarityThreshold {
			thresholded = append(thresholded, c)
		}
	}

	stats := Stats{Scored: len(scored), AfterThreshold: len(thresholded)}

	top := thresholded
	if cfg.TopK < len(top) {
		top = top[:cfg.TopK]
	}

	out := make([]domain.RetrievedChunk, len(top))
	for i, c := range top {
		c.Rank = i + 1
		out[i] = c
	}
	return out, stats
}

func filterBySourcebook(corpus []domain.DocumentChunk, filter []domain.Sourcebook) []domain.DocumentChunk {
	allowed := make(map[domain.Sourcebook]struct{}, len(filter))
	for _, sb := range filter {
		allowed[sb] = struct{}{}
	}
	out := make([]domain.DocumentChunk, 0, len(corpus))
	for _, c := range corpus {
		if _, ok := allowed[c.Metadata.Sourcebook]; ok {
			out = append(out, c)
		}
	}
	return out
}

// cosineRetrieval scores by embedding cosine similarity, falling back to
// lexical similarity per chunk when either vector is missing.
func cosineRetrieval(queryEmbedding []float64, queryText string, chunks []domain.DocumentChunk) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		var score float64
		if len(queryEmbedding) > 0 && len(chunk.Embedding) > 0 {
			score = similarity.Cosine(queryEmbedding, chunk.Embedding)
		} else {
			score = similarity.Lexical(queryText, chunk.Text)
		}
		out = append(out, domain.RetrievedChunk{DocumentChunk: chunk, Score: score})
	}
	sortByScore(out)
	return out
}

// mmrRetrieval greedily builds a diversity-aware selection: each step picks
// the candidate maximizing lambda*relevance - (1-lambda)*maxSimToSelected.
func mmrRetrieval(queryEmbedding []float64, queryText string, chunks []domain.DocumentChunk, topK int) []domain.RetrievedChunk {
	allScored := cosineRetrieval(queryEmbedding, queryText, chunks)
	if len(allScored) == 0 || topK <= 0 {
		return allScored[:0]
	}

	selected := []domain.RetrievedChunk{allScored[0]}
	remaining := append([]domain.RetrievedChunk(nil), allScored[1:]...)

	for len(selected) < topK && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, candidate := range remaining {
			maxSim := 0.0
			for _, sel := range selected {
				var sim float64
				if len(candidate.Embedding) > 0 && len(sel.Embedding) > 0 {
					sim = similarity.Cosine(candidate.Embedding, sel.Embedding)
				} else {
					sim = similarity.TextOverlap(candidate.Text, sel.Text)
				}
				if sim > maxSim {
					maxSim = sim
				}
			}
			mmrScore := mmrLambda*candidate.Score - (1-mmrLambda)*maxSim
			if mmrScore > bestScore {
				bestScore = mmrScore
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// hybridRetrieval blends semantic and lexical scores 60/40; without an
// embedding-based score it degrades to pure lexical.
func hybridRetrieval(queryEmbedding []float64, queryText string, chunks []domain.DocumentChunk) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		semantic := 0.0
		if len(queryEmbedding) > 0 && len(chunk.Embedding) > 0 {
			semantic = similarity.Cosine(queryEmbedding, chunk.Embedding)
		}
		lexical := similarity.Lexical(queryText, chunk.Text)

		score := lexical
		if semantic > 0 {
			score = semantic*0.6 + lexical*0.4
		}
		out = append(out, domain.RetrievedChunk{DocumentChunk: chunk, Score: score})
	}
	sortByScore(out)
	return out
}

func sortByScore(chunks []domain.RetrievedChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
}
