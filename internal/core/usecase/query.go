package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/ports"
	"github.com/handbook-labs/rag-playground/internal/core/pricing"
	"github.com/handbook-labs/rag-playground/internal/core/prompt"
	"github.com/handbook-labs/rag-playground/internal/core/rerank"
	"github.com/handbook-labs/rag-playground/internal/core/retrieval"
)

const (
	ModeLive      = "live"
	ModeSimulated = "simulated"
)

// Observer receives per-query observations. Implementations must be safe for
// concurrent use; a nil observer disables recording.
type Observer interface {
	RecordQuery(mode string, chunkCount int, duration time.Duration)
	RecordTokenUsage(model string, promptTokens, completionTokens int)
	RecordCost(model string, cost float64)
}

// QueryUseCase sequences retrieve -> rerank -> prompt -> generate -> account
// for one query. With no embedding/generation capability wired it runs the
// simulated path, which produces a structurally identical result.
type QueryUseCase struct {
	corpus    ports.CorpusProvider
	answers   ports.AnswerBank
	embedder  ports.Embedder
	generator ports.Generator
	judge     ports.RelevanceJudge
	observer  Observer
}

func NewQueryUseCase(
	corpus ports.CorpusProvider,
	answers ports.AnswerBank,
	embedder ports.Embedder,
	generator ports.Generator,
	judge ports.RelevanceJudge,
	observer Observer,
) *QueryUseCase {
	return &QueryUseCase{
		corpus:    corpus,
		answers:   answers,
		embedder:  embedder,
		generator: generator,
		judge:     judge,
		observer:  observer,
	}
}

func (uc *QueryUseCase) Execute(ctx context.Context, query string, cfg domain.RAGConfig) (*domain.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "execute query", fmt.Errorf("query text is empty"))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if uc.embedder == nil || uc.generator == nil {
		return uc.simulated(query, cfg), nil
	}

	result, err := uc.live(ctx, query, cfg)
	if err != nil && domain.IsKind(err, domain.ErrCapabilityUnavailable) {
		slog.Warn("live_mode_unavailable_falling_back", "error", err)
		return uc.simulated(query, cfg), nil
	}
	return result, err
}

func (uc *QueryUseCase) live(ctx context.Context, query string, cfg domain.RAGConfig) (*domain.QueryResult, error) {
	start := time.Now()

	queryEmbedding, err := uc.embedder.EmbedQuery(ctx, query, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	retrievalStart := time.Now()
	retrieved, stats := retrieval.Retrieve(queryEmbedding, query, uc.corpus.Chunks(), cfg)
	retrievalLatency := time.Since(retrievalStart)

	if cfg.Reranking && len(retrieved) > 1 {
		retrieved = rerank.Rerank(ctx, uc.judge, query, retrieved)
	}

	assembled := prompt.Build(query, retrieved, cfg)

	generationStart := time.Now()
	gen, err := uc.generator.Complete(ctx, assembled.System, assembled.User, cfg)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	generationLatency := time.Since(generationStart)

	answer := gen.Text
	if answer == "" {
		answer = "No response generated."
	}

	promptTokens := gen.PromptTokens
	completionTokens := gen.CompletionTokens
	if promptTokens == 0 && completionTokens == 0 {
		promptTokens = pricing.EstimateTokens(assembled.Full)
		completionTokens = pricing.EstimateTokens(answer)
	}

	total := time.Since(start)
	cost := pricing.GenerationCost(cfg.GenerationModel, promptTokens, completionTokens)

	metrics := domain.QueryMetrics{
		RetrievalLatencyMs:   toMillis(retrievalLatency),
		GenerationLatencyMs:  toMillis(generationLatency),
		TotalLatencyMs:       toMillis(total),
		PromptTokens:         promptTokens,
		CompletionTokens:     completionTokens,
		TotalTokens:          promptTokens + completionTokens,
		EstimatedCost:        cost,
		ChunksRetrieved:      stats.Scored,
		ChunksAfterThreshold: stats.AfterThreshold,
	}

	result := &domain.QueryResult{
		Answer:          answer,
		RetrievedChunks: retrieved,
		Metrics:         metrics,
		Config:          cfg,
	}
	if cfg.ShowRawPrompt {
		result.RawPrompt = assembled.Full
	}

	uc.observe(ModeLive, cfg, metrics, total)
	return result, nil
}

func (uc *QueryUseCase) observe(mode string, cfg domain.RAGConfig, metrics domain.QueryMetrics, duration time.Duration) {
	if uc.observer == nil {
		return
	}
	uc.observer.RecordQuery(mode, metrics.ChunksAfterThreshold, duration)
	uc.observer.RecordTokenUsage(string(cfg.GenerationModel), metrics.PromptTokens, metrics.CompletionTokens)
	uc.observer.RecordCost(string(cfg.GenerationModel), metrics.EstimatedCost)
}

func toMillis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
