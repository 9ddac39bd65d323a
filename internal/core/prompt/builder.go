// Package prompt formats retrieved evidence into the system/user message
// pair sent to the generation capability.
package prompt

import (
	"fmt"
	"strings"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

// Prompt carries the assembled messages. Full is a display-only
// concatenation and is never parsed back.
type Prompt struct {
	System string
	User   string
	Full   string
}

// Build assembles the prompt for the configured context strategy.
func Build(query string, chunks []domain.RetrievedChunk, cfg domain.RAGConfig) Prompt {
	contextText := formatContext(chunks, cfg)
	system := cfg.SystemPrompt

	var user string
	switch cfg.ContextStrategy {
	case domain.ContextMapReduce:
		user = buildMapReducePrompt(query, contextText)
	case domain.ContextRefine:
		user = buildRefinePrompt(query, contextText)
	case domain.ContextStuff:
		user = buildStuffPrompt(query, contextText)
	default:
		user = buildStuffPrompt(query, contextText)
	}

	return Prompt{
		System: system,
		User:   user,
		Full:   fmt.Sprintf("[System]\n%s\n\n[User]\n%s", system, user),
	}
}

func formatContext(chunks []domain.RetrievedChunk, cfg domain.RAGConfig) string {
	blocks := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		header := ""
		if cfg.IncludeMetadata {
			header = fmt.Sprintf("[Source: %s %s — %s]\n",
				chunk.Metadata.Sourcebook, chunk.Metadata.Section, chunk.Metadata.Title)
		}
		blocks = append(blocks, fmt.Sprintf("--- Context %d (Score: %.1f%%) ---\n%s%s",
			i+1, chunk.Score*100, header, chunk.Text))
	}
	return strings.Join(blocks, "\n\n")
}

func buildStuffPrompt(query, context string) string {
	return fmt.Sprintf(`Using the following context from the FCA Handbook, answer the question below.

%s

---
Question: %s

Provide a comprehensive answer citing specific sections where possible.`, context, query)
}

func buildMapReducePrompt(query, context string) string {
	return fmt.Sprintf(`Using the following context from the FCA Handbook, answer the question below.

For each piece of context, first extract the key relevant information, then synthesise a final answer.

%s

---
Question: %s

Step 1: Extract key points from each context piece.
Step 2: Synthesise a comprehensive answer citing specific sections.`, context, query)
}

func buildRefinePrompt(query, context string) string {
	return fmt.Sprintf(`Using the following context from the FCA Handbook, answer the question below.

Read each context piece in order and progressively refine your answer, adding detail and nuance as you go.

%s

---
Question: %s

Build your answer iteratively, citing specific sections.`, context, query)
}
