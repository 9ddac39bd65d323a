package ports

import (
	"context"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

// QueryRunner is the inbound contract for one full RAG query cycle.
type QueryRunner interface {
	Execute(ctx context.Context, query string, cfg domain.RAGConfig) (*domain.QueryResult, error)
}

// QueryComparer runs two independent query cycles over the same question.
type QueryComparer interface {
	Compare(ctx context.Context, query string, cfgA, cfgB domain.RAGConfig) (*domain.ComparisonResult, error)
}
