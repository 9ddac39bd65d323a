package prompt

import (
	"strings"
	"testing"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

func sampleChunks() []domain.RetrievedChunk {
	return []domain.RetrievedChunk{
		{
			DocumentChunk: domain.DocumentChunk{
				ID:   "prin-2.1.1",
				Text: "A firm must conduct its business with integrity.",
				Metadata: domain.ChunkMetadata{
					Sourcebook: domain.SourcebookPRIN,
					Section:    "2.1.1",
					Title:      "The Principles",
				},
			},
			Score: 0.9234,
			Rank:  1,
		},
		{
			DocumentChunk: domain.DocumentChunk{
				ID:   "disp-1.3.1",
				Text: "A firm must maintain effective complaints procedures.",
				Metadata: domain.ChunkMetadata{
					Sourcebook: domain.SourcebookDISP,
					Section:    "1.3.1",
					Title:      "Complaints handling",
				},
			},
			Score: 0.75,
			Rank:  2,
		},
	}
}

func TestBuildStuffPrompt(t *testing.T) {
	cfg := domain.DefaultConfig()
	p := Build("What is Principle 1?", sampleChunks(), cfg)

	if p.System != cfg.SystemPrompt {
		t.Fatalf("system message must carry the configured prompt, got %q", p.System)
	}
	if !strings.Contains(p.User, "Question: What is Principle 1?") {
		t.Fatalf("user message must carry the question, got %q", p.User)
	}
	if !strings.Contains(p.User, "--- Context 1 (Score: 92.3%) ---") {
		t.Fatalf("expected numbered context block with percent score, got %q", p.User)
	}
	if !strings.Contains(p.User, "--- Context 2 (Score: 75.0%) ---") {
		t.Fatalf("expected second context block, got %q", p.User)
	}
	if !strings.Contains(p.Full, "[System]") || !strings.Contains(p.Full, "[User]") {
		t.Fatalf("full prompt must label both messages, got %q", p.Full)
	}
}

func TestBuildIncludesMetadataHeader(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.IncludeMetadata = true
	p := Build("q", sampleChunks(), cfg)
	if !strings.Contains(p.User, "[Source: PRIN 2.1.1") {
		t.Fatalf("expected source header, got %q", p.User)
	}

	cfg.IncludeMetadata = false
	p = Build("q", sampleChunks(), cfg)
	if strings.Contains(p.User, "[Source:") {
		t.Fatalf("metadata disabled but header present: %q", p.User)
	}
}

func TestBuildMapReducePrompt(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.ContextStrategy = domain.ContextMapReduce
	p := Build("q", sampleChunks(), cfg)
	if !strings.Contains(p.User, "Step 1: Extract key points") {
		t.Fatalf("map-reduce prompt missing extraction step, got %q", p.User)
	}
}

func TestBuildRefinePrompt(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.ContextStrategy = domain.ContextRefine
	p := Build("q", sampleChunks(), cfg)
	if !strings.Contains(p.User, "progressively refine") {
		t.Fatalf("refine prompt missing refinement instruction, got %q", p.User)
	}
}

func TestUnknownStrategyFallsBackToStuff(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.ContextStrategy = domain.ContextStrategy("bogus")
	p := Build("q", sampleChunks(), cfg)

	cfg.ContextStrategy = domain.ContextStuff
	want := Build("q", sampleChunks(), cfg)
	if p.User != want.User {
		t.Fatal("unknown strategy must produce the stuff prompt")
	}
}

func TestBuildWithNoChunks(t *testing.T) {
	cfg := domain.DefaultConfig()
	p := Build("q", nil, cfg)
	if strings.Contains(p.User, "--- Context") {
		t.Fatalf("no chunks should produce no context blocks, got %q", p.User)
	}
	if !strings.Contains(p.User, "Question: q") {
		t.Fatalf("question must survive empty context, got %q", p.User)
	}
}
