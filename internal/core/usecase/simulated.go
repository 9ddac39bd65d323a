package usecase

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/pricing"
	"github.com/handbook-labs/rag-playground/internal/core/prompt"
	"github.com/handbook-labs/rag-playground/internal/core/similarity"
)

// simulatedThresholdFactor relaxes the similarity threshold for offline runs.
// Lexical scores sit lower than embedding cosine scores, so the configured
// threshold is halved to keep demo retrieval useful. Deliberate, not a bug.
const simulatedThresholdFactor = 0.5

// simulated executes the full query cycle without any external capability:
// lexical scoring, canned-or-synthesized answers, jittered latencies, and the
// same pricing tables as live mode.
func (uc *QueryUseCase) simulated(query string, cfg domain.RAGConfig) *domain.QueryResult {
	start := time.Now()

	canned, haveCanned := uc.lookupCanned(query)

	filtered := make([]domain.RetrievedChunk, 0)
	allowed := make(map[domain.Sourcebook]struct{}, len(cfg.SourcebookFilter))
	for _, sb := range cfg.SourcebookFilter {
		allowed[sb] = struct{}{}
	}
	for _, chunk := range uc.corpus.Chunks() {
		if _, ok := allowed[chunk.Metadata.Sourcebook]; !ok {
			continue
		}
		score := similarity.Lexical(query, chunk.Text+" "+chunk.Metadata.Title)
		filtered = append(filtered, domain.RetrievedChunk{DocumentChunk: chunk, Score: score})
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})

	scoredCount := len(filtered)
	thresholded := filtered[:0:0]
	for _, c := range filtered {
		if c.Score >= cfg.SimilarityThreshold*simulatedThresholdFactor {
			thresholded = append(thresholded, c)
		}
	}
	afterThreshold := len(thresholded)

	top := thresholded
	if cfg.TopK < len(top) {
		top = top[:cfg.TopK]
	}
	retrieved := make([]domain.RetrievedChunk, len(top))
	for i, c := range top {
		c.Rank = i + 1
		retrieved[i] = c
	}

	retrievalMs := toMillis(time.Since(start))

	assembled := prompt.Build(query, retrieved, cfg)

	var answer string
	switch {
	case len(retrieved) == 0:
		answer = noContextAnswer()
	case haveCanned:
		answer = canned.Answer
	default:
		answer = fallbackAnswer(retrieved)
	}

	generationMs := 800 + rand.Float64()*500
	if haveCanned && canned.Metrics.GenerationLatencyMs > 0 {
		generationMs = canned.Metrics.GenerationLatencyMs
	}

	promptTokens := pricing.EstimateTokens(assembled.Full)
	completionTokens := pricing.EstimateTokens(answer)

	metrics := domain.QueryMetrics{
		RetrievalLatencyMs:   retrievalMs + rand.Float64()*20,
		GenerationLatencyMs:  generationMs,
		TotalLatencyMs:       retrievalMs + generationMs,
		PromptTokens:         promptTokens,
		CompletionTokens:     completionTokens,
		TotalTokens:          promptTokens + completionTokens,
		EstimatedCost:        pricing.GenerationCost(cfg.GenerationModel, promptTokens, completionTokens),
		ChunksRetrieved:      scoredCount,
		ChunksAfterThreshold: afterThreshold,
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

	uc.observe(ModeSimulated, cfg, metrics, time.Since(start))
	return result
}

func (uc *QueryUseCase) lookupCanned(query string) (*domain.CannedAnswer, bool) {
	if uc.answers == nil {
		return nil, false
	}
	return uc.answers.Lookup(query)
}

func noContextAnswer() string {
	return "**No relevant context found.** The query did not match any chunks in the current sourcebook selection above the similarity threshold. Try:\n" +
		"- Lowering the similarity threshold\n" +
		"- Expanding the sourcebook filter\n" +
		"- Rephrasing the question\n\n" +
		"*This is demo mode — connect an OpenAI API key for full AI-generated responses.*"
}

// fallbackAnswer synthesizes a non-AI answer from the top retrieved sources,
// explicitly flagged as such.
func fallbackAnswer(chunks []domain.RetrievedChunk) string {
	limit := len(chunks)
	if limit > 3 {
		limit = 3
	}

	var sources, excerpts []string
	for _, c := range chunks[:limit] {
		sources = append(sources, fmt.Sprintf("- **%s %s** — %s",
			c.Metadata.Sourcebook, c.Metadata.Section, c.Metadata.Title))
		excerpts = append(excerpts, "> "+clip(c.Text, 150)+"...")
	}

	return "Based on the retrieved FCA Handbook context, here are the most relevant provisions:\n\n" +
		"### Relevant Sources\n" + strings.Join(sources, "\n") + "\n\n" +
		"### Key Context\n" + strings.Join(excerpts, "\n\n") + "\n\n---\n" +
		"*This is a demo mode response using keyword-based retrieval. Connect an OpenAI API key to get full AI-generated answers with proper reasoning and citations.*"
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
