package domain

import "fmt"

type ChunkingStrategy string

const (
	ChunkingFixed     ChunkingStrategy = "fixed"
	ChunkingSentence  ChunkingStrategy = "sentence"
	ChunkingParagraph ChunkingStrategy = "paragraph"
	ChunkingRecursive ChunkingStrategy = "recursive"
)

func (s ChunkingStrategy) Valid() bool {
	switch s {
	case ChunkingFixed, ChunkingSentence, ChunkingParagraph, ChunkingRecursive:
		return true
	}
	return false
}

type RetrievalMethod string

const (
	RetrievalCosine RetrievalMethod = "cosine"
	RetrievalMMR    RetrievalMethod = "mmr"
	RetrievalHybrid RetrievalMethod = "hybrid"
)

func (m RetrievalMethod) Valid() bool {
	switch m {
	case RetrievalCosine, RetrievalMMR, RetrievalHybrid:
		return true
	}
	return false
}

type ContextStrategy string

const (
	ContextStuff     ContextStrategy = "stuff"
	ContextMapReduce ContextStrategy = "map-reduce"
	ContextRefine    ContextStrategy = "refine"
)

func (s ContextStrategy) Valid() bool {
	switch s {
	case ContextStuff, ContextMapReduce, ContextRefine:
		return true
	}
	return false
}

type EmbeddingModel string

const (
	EmbeddingSmall EmbeddingModel = "text-embedding-3-small"
	EmbeddingLarge EmbeddingModel = "text-embedding-3-large"
	EmbeddingAda   EmbeddingModel = "text-embedding-ada-002"
)

func (m EmbeddingModel) Valid() bool {
	switch m {
	case EmbeddingSmall, EmbeddingLarge, EmbeddingAda:
		return true
	}
	return false
}

type GenerationModel string

const (
	GenerationGPT4o     GenerationModel = "gpt-4o"
	GenerationGPT4oMini GenerationModel = "gpt-4o-mini"
	GenerationGPT4Turbo GenerationModel = "gpt-4-turbo"
	GenerationGPT35     GenerationModel = "gpt-3.5-turbo"
)

func (m GenerationModel) Valid() bool {
	switch m {
	case GenerationGPT4o, GenerationGPT4oMini, GenerationGPT4Turbo, GenerationGPT35:
		return true
	}
	return false
}

const DefaultSystemPrompt = "You are an expert UK financial regulation advisor. " +
	"Answer questions using only the provided FCA Handbook context. " +
	"Always cite the specific sourcebook, chapter, and section number. " +
	"If the context does not contain the answer, say so clearly."

// RAGConfig is the full set of tunable parameters governing one query
// execution. Every field must hold a valid value before a query runs;
// DefaultConfig returns a total configuration that validates.
type RAGConfig struct {
	ChunkingStrategy ChunkingStrategy `json:"chunking_strategy"`
	ChunkSize        int              `json:"chunk_size"`
	ChunkOverlap     int              `json:"chunk_overlap"`
	SourcebookFilter []Sourcebook     `json:"sourcebook_filter"`

	EmbeddingModel      EmbeddingModel  `json:"embedding_model"`
	TopK                int             `json:"top_k"`
	SimilarityThreshold float64         `json:"similarity_threshold"`
	RetrievalMethod     RetrievalMethod `json:"retrieval_method"`
	Reranking           bool            `json:"reranking"`

	GenerationModel  GenerationModel `json:"generation_model"`
	Temperature      float64         `json:"temperature"`
	MaxTokens        int             `json:"max_tokens"`
	TopP             float64         `json:"top_p"`
	FrequencyPenalty float64         `json:"frequency_penalty"`
	PresencePenalty  float64         `json:"presence_penalty"`
	SystemPrompt     string          `json:"system_prompt"`

	ContextStrategy ContextStrategy `json:"context_strategy"`
	IncludeMetadata bool            `json:"include_metadata"`
	ShowRawPrompt   bool            `json:"show_raw_prompt"`
}

func DefaultConfig() RAGConfig {
	return RAGConfig{
		ChunkingStrategy: ChunkingRecursive,
		ChunkSize:        500,
		ChunkOverlap:     10,
		SourcebookFilter: AllSourcebooks(),

		EmbeddingModel:      EmbeddingSmall,
		TopK:                5,
		SimilarityThreshold: 0.7,
		RetrievalMethod:     RetrievalCosine,
		Reranking:           false,

		GenerationModel:  GenerationGPT4oMini,
		Temperature:      0.3,
		MaxTokens:        1000,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
		SystemPrompt:     DefaultSystemPrompt,

		ContextStrategy: ContextStuff,
		IncludeMetadata: true,
		ShowRawPrompt:   false,
	}
}

// Validate checks every field against its declared domain. TopK zero is
// accepted: it legitimately produces an empty retrieval set.
func (c RAGConfig) Validate() error {
	if !c.ChunkingStrategy.Valid() {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown chunking strategy %q", c.ChunkingStrategy))
	}
	if c.ChunkSize <= 0 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap > 100 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("chunk overlap must be within 0..100, got %d", c.ChunkOverlap))
	}
	for _, sb := range c.SourcebookFilter {
		if !sb.Valid() {
			return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown sourcebook %q", sb))
		}
	}
	if !c.EmbeddingModel.Valid() {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown embedding model %q", c.EmbeddingModel))
	}
	if c.TopK < 0 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("top_k must not be negative, got %d", c.TopK))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("similarity threshold must be within 0..1, got %g", c.SimilarityThreshold))
	}
	if !c.RetrievalMethod.Valid() {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown retrieval method %q", c.RetrievalMethod))
	}
	if !c.GenerationModel.Valid() {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown generation model %q", c.GenerationModel))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("temperature must be within 0..2, got %g", c.Temperature))
	}
	if c.MaxTokens <= 0 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens))
	}
	if c.TopP <= 0 || c.TopP > 1 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("top_p must be within (0..1], got %g", c.TopP))
	}
	if c.FrequencyPenalty < -2 || c.FrequencyPenalty > 2 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("frequency penalty must be within -2..2, got %g", c.FrequencyPenalty))
	}
	if c.PresencePenalty < -2 || c.PresencePenalty > 2 {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("presence penalty must be within -2..2, got %g", c.PresencePenalty))
	}
	if !c.ContextStrategy.Valid() {
		return WrapError(ErrInvalidInput, "validate config", fmt.Errorf("unknown context strategy %q", c.ContextStrategy))
	}
	return nil
}

func ExampleQuestions() []string {
	return []string{
		"What are the 12 FCA Principles for Businesses?",
		"What are a firm's obligations under Treating Customers Fairly?",
		"What systems and controls are required for anti-money laundering?",
		"What are the rules around inducements under MiFID?",
		"How should firms handle complaints under DISP?",
		"What are the conduct of business rules for insurance products?",
	}
}
