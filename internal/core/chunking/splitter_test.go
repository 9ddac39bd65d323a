package chunking

import (
	"strings"
	"testing"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

func TestFixedSplitterCoversAllText(t *testing.T) {
	text := strings.Repeat("abcde ", 40)
	splitter := NewSplitter(domain.ChunkingFixed, 5, 0)

	chunks := splitter.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for %d chars with a 20-char window, got %d", len(text), len(chunks))
	}

	if chunks[0].Start != 0 {
		t.Fatalf("first chunk should start at offset 0, got %d", chunks[0].Start)
	}
	last := chunks[len(chunks)-1]
	if last.End != len(text) {
		t.Fatalf("last chunk should end at %d, got %d", len(text), last.End)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].Start < chunks[i-1].Start {
			t.Fatalf("chunk offsets must be non-decreasing: chunk %d starts at %d after %d", i, chunks[i].Start, chunks[i-1].Start)
		}
	}
}

func TestFixedSplitterOverlap(t *testing.T) {
	text := strings.Repeat("x", 100)
	// chunk size 5 tokens = 20 chars, 20% overlap = 4 chars, step 16.
	splitter := NewSplitter(domain.ChunkingFixed, 5, 20)

	chunks := splitter.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].End - chunks[i].Start
		if overlap != 4 {
			t.Fatalf("expected 4 chars of overlap between chunks %d and %d, got %d", i-1, i, overlap)
		}
	}
}

func TestFullOverlapDoesNotStall(t *testing.T) {
	text := strings.Repeat("y", 80)
	splitter := NewSplitter(domain.ChunkingFixed, 5, 100)

	chunks := splitter.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite 100% overlap")
	}
	if chunks[len(chunks)-1].End != len(text) {
		t.Fatalf("splitter must reach end of input, stopped at %d", chunks[len(chunks)-1].End)
	}
}

func TestSentenceSplitterKeepsSentencesWhole(t *testing.T) {
	text := "First sentence here. Second sentence here. Third sentence here."
	splitter := NewSplitter(domain.ChunkingSentence, 5, 0)

	chunks := splitter.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks with a 5-token budget, got %d", len(chunks))
	}
	for i, c := range chunks {
		if !strings.HasSuffix(c.Text, ".") {
			t.Fatalf("chunk %d should end on a sentence boundary, got %q", i, c.Text)
		}
	}
}

func TestParagraphSplitterSplitsOnBlankLines(t *testing.T) {
	text := "Paragraph one has several words in it.\n\nParagraph two also has several words.\n\nParagraph three closes the document."
	splitter := NewSplitter(domain.ChunkingParagraph, 10, 0)

	chunks := splitter.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected one chunk per paragraph, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Text, "Paragraph two") {
		t.Fatalf("first chunk leaked the second paragraph: %q", chunks[0].Text)
	}
}

func TestOversizedUnitEmittedWhole(t *testing.T) {
	paragraph := strings.Repeat("word ", 200)
	splitter := NewSplitter(domain.ChunkingParagraph, 10, 0)

	chunks := splitter.Split(paragraph)
	if len(chunks) != 1 {
		t.Fatalf("an indivisible paragraph must be emitted whole, got %d chunks", len(chunks))
	}
	if estimateTokens(chunks[0].Text) <= 10 {
		t.Fatalf("expected the oversized chunk to exceed the budget")
	}
}

func TestRecursiveSplitterRespectsBudget(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteString(strings.Repeat("alpha beta gamma delta. ", 10))
		b.WriteString("\n\n")
	}
	splitter := NewSplitter(domain.ChunkingRecursive, 20, 0)

	chunks := splitter.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected recursive splitting into multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Text == "" {
			t.Fatalf("chunk %d is empty", i)
		}
		// The finest separator is a single space, so every chunk can be
		// brought under budget for this input.
		if got := estimateTokens(c.Text); got > 20 {
			t.Fatalf("chunk %d exceeds the 20-token budget: %d tokens", i, got)
		}
	}
}

func TestEmptyInputYieldsNoChunks(t *testing.T) {
	for _, strategy := range []domain.ChunkingStrategy{
		domain.ChunkingFixed,
		domain.ChunkingSentence,
		domain.ChunkingParagraph,
		domain.ChunkingRecursive,
	} {
		splitter := NewSplitter(strategy, 100, 10)
		if chunks := splitter.Split(""); len(chunks) != 0 {
			t.Fatalf("%s: expected no chunks for empty input, got %d", strategy, len(chunks))
		}
		if chunks := splitter.Split("   \n\n  "); len(chunks) != 0 {
			t.Fatalf("%s: expected no chunks for whitespace input, got %d", strategy, len(chunks))
		}
	}
}

func TestUnknownStrategyFallsBackToFixed(t *testing.T) {
	text := strings.Repeat("z", 60)
	chunks := NewSplitter(domain.ChunkingStrategy("bogus"), 5, 0).Split(text)
	want := NewSplitter(domain.ChunkingFixed, 5, 0).Split(text)
	if len(chunks) != len(want) {
		t.Fatalf("unknown strategy should behave like fixed: got %d chunks, want %d", len(chunks), len(want))
	}
}

func TestEstimateTokensRoundsUp(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"a":     1,
		"abcd":  1,
		"abcde": 2,
	}
	for text, want := range cases {
		if got := estimateTokens(text); got != want {
			t.Fatalf("estimateTokens(%q) = %d, want %d", text, got, want)
		}
	}
}
