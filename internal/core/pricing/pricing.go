// Package pricing holds the static per-model price tables and the token/cost
// estimation helpers shared by live and simulated execution.
package pricing

import (
	"fmt"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

type modelPrice struct {
	Input  float64
	Output float64
}

// USD per 1M tokens, early-2025 list prices.
var generationPricing = map[domain.GenerationModel]modelPrice{
	domain.GenerationGPT4o:     {Input: 2.50, Output: 10.00},
	domain.GenerationGPT4oMini: {Input: 0.15, Output: 0.60},
	domain.GenerationGPT4Turbo: {Input: 10.00, Output: 30.00},
	domain.GenerationGPT35:     {Input: 0.50, Output: 1.50},
}

var embeddingPricing = map[domain.EmbeddingModel]float64{
	domain.EmbeddingSmall: 0.02,
	domain.EmbeddingLarge: 0.13,
	domain.EmbeddingAda:   0.10,
}

// GenerationCost estimates the monetary cost of one completion. Unknown
// models price as gpt-4o-mini.
func GenerationCost(model domain.GenerationModel, promptTokens, completionTokens int) float64 {
	price, ok := generationPricing[model]
	if !ok {
		price = generationPricing[domain.GenerationGPT4oMini]
	}
	inputCost := float64(promptTokens) / 1_000_000 * price.Input
	outputCost := float64(completionTokens) / 1_000_000 * price.Output
	return inputCost + outputCost
}

func EmbeddingCost(model domain.EmbeddingModel, tokens int) float64 {
	return float64(tokens) / 1_000_000 * embeddingPricing[model]
}

// EstimateTokens approximates token usage when provider-reported counts are
// unavailable: 1 token ~ 4 characters, rounded up.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// FormatCost renders a cost for display: below $0.001 collapses to a floor
// marker, otherwise four decimal places.
func FormatCost(cost float64) string {
	if cost < 0.001 {
		return "<$0.001"
	}
	return fmt.Sprintf("$%.4f", cost)
}
