package ports

import (
	"context"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

// Embedder turns query text into a fixed-length vector. Implementations must
// fail explicitly when the capability is absent; they never return zero
// vectors silently.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string, model domain.EmbeddingModel) ([]float64, error)
}

// Generator produces the final answer from assembled system/user messages
// using the decoding parameters carried by the config.
type Generator interface {
	Complete(ctx context.Context, systemMsg, userMsg string, cfg domain.RAGConfig) (domain.Generation, error)
}

// RelevanceJudge orders candidate excerpts by relevance to the query,
// returning a permutation of 0-based indices, most relevant first.
type RelevanceJudge interface {
	Judge(ctx context.Context, query string, excerpts []string) ([]int, error)
}

// CorpusProvider hands out the process-wide read-only chunk collection.
type CorpusProvider interface {
	Chunks() []domain.DocumentChunk
}

// AnswerBank resolves a question to a canned answer, exact match first, then
// fuzzy lexical match above a fixed confidence floor.
type AnswerBank interface {
	Lookup(query string) (*domain.CannedAnswer, bool)
}
