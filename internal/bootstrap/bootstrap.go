// Package bootstrap wires configuration, the corpus, LLM capabilities and
// the use cases into a runnable application.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/handbook-labs/rag-playground/internal/config"
	"github.com/handbook-labs/rag-playground/internal/core/ports"
	"github.com/handbook-labs/rag-playground/internal/core/usecase"
	"github.com/handbook-labs/rag-playground/internal/infrastructure/corpus"
	"github.com/handbook-labs/rag-playground/internal/infrastructure/llm/openai"
	"github.com/handbook-labs/rag-playground/internal/infrastructure/resilience"
	"github.com/handbook-labs/rag-playground/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Corpus   ports.CorpusProvider
	Embedder ports.Embedder
	QueryUC  ports.QueryRunner
	Compare  ports.QueryComparer
	Metrics  *metrics.HTTPServerMetrics
}

// New assembles the application. Without an OpenAI API key the LLM
// capabilities stay nil and every query runs in simulated mode.
func New(cfg config.Config) (*App, error) {
	store, err := corpus.Load()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	answers, err := corpus.LoadAnswerBank()
	if err != nil {
		return nil, fmt.Errorf("load answer bank: %w", err)
	}

	var (
		embedder  ports.Embedder
		generator ports.Generator
		judge     ports.RelevanceJudge
	)
	if cfg.OpenAIAPIKey != "" {
		exec := resilience.NewExecutor(resilience.DefaultConfig())
		client := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, exec)
		embedder = openai.NewEmbedder(client)
		generator = openai.NewGenerator(client)
		judge = openai.NewJudge(client)
	} else {
		slog.Info("no OPENAI_API_KEY configured, running in simulated mode")
	}

	serverMetrics := metrics.NewHTTPServerMetrics("rag-playground-api")
	observer := serverMetrics.QueryObserver("rag-playground-api")

	queryUC := usecase.NewQueryUseCase(store, answers, embedder, generator, judge, observer)
	compareUC := usecase.NewCompareUseCase(queryUC)

	return &App{
		Config:   cfg,
		Corpus:   store,
		Embedder: embedder,
		QueryUC:  queryUC,
		Compare:  compareUC,
		Metrics:  serverMetrics,
	}, nil
}
