package domain

import (
	"strings"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("the default configuration must validate: %v", err)
	}
}

func TestValidateAcceptsTopKZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopK = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("topK=0 is a legal empty-retrieval configuration: %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*RAGConfig)
	}{
		{"chunking strategy", func(c *RAGConfig) { c.ChunkingStrategy = "bogus" }},
		{"chunk size", func(c *RAGConfig) { c.ChunkSize = 0 }},
		{"chunk overlap", func(c *RAGConfig) { c.ChunkOverlap = 101 }},
		{"sourcebook", func(c *RAGConfig) { c.SourcebookFilter = []Sourcebook{"NOPE"} }},
		{"embedding model", func(c *RAGConfig) { c.EmbeddingModel = "bogus" }},
		{"negative topK", func(c *RAGConfig) { c.TopK = -1 }},
		{"threshold", func(c *RAGConfig) { c.SimilarityThreshold = 1.5 }},
		{"retrieval method", func(c *RAGConfig) { c.RetrievalMethod = "bogus" }},
		{"generation model", func(c *RAGConfig) { c.GenerationModel = "bogus" }},
		{"temperature", func(c *RAGConfig) { c.Temperature = 2.5 }},
		{"max tokens", func(c *RAGConfig) { c.MaxTokens = 0 }},
		{"top_p", func(c *RAGConfig) { c.TopP = 0 }},
		{"frequency penalty", func(c *RAGConfig) { c.FrequencyPenalty = 3 }},
		{"presence penalty", func(c *RAGConfig) { c.PresencePenalty = -3 }},
		{"context strategy", func(c *RAGConfig) { c.ContextStrategy = "bogus" }},
	}

	for _, m := range mutations {
		cfg := DefaultConfig()
		m.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation failure", m.name)
		}
		if !IsKind(err, ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input kind, got %v", m.name, err)
		}
	}
}

func TestSourcebookCatalogueCoversAllBooks(t *testing.T) {
	catalogue := SourcebookCatalogue()
	if len(catalogue) != len(AllSourcebooks()) {
		t.Fatalf("catalogue size %d does not match sourcebook count %d", len(catalogue), len(AllSourcebooks()))
	}
	for _, info := range catalogue {
		if !info.Code.Valid() {
			t.Fatalf("catalogue carries unknown sourcebook %q", info.Code)
		}
		if info.Name == "" || info.Description == "" {
			t.Fatalf("catalogue entry %s is incomplete", info.Code)
		}
	}
}

func TestExampleQuestionsAreNonEmpty(t *testing.T) {
	questions := ExampleQuestions()
	if len(questions) == 0 {
		t.Fatal("expected example questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q) == "" {
			t.Fatalf("question %d is blank", i)
		}
	}
}

func TestWrapErrorPreservesKindAndOperation(t *testing.T) {
	err := WrapError(ErrInvalidInput, "validate config", ErrTemporary)
	if !IsKind(err, ErrInvalidInput) {
		t.Fatal("wrapped error must keep its kind")
	}
	if !strings.Contains(err.Error(), "validate config") {
		t.Fatalf("wrapped error must carry the operation, got %v", err)
	}
	if WrapError(ErrInvalidInput, "op", nil) != nil {
		t.Fatal("wrapping nil must stay nil")
	}
}
