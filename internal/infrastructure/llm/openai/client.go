// Package openai adapts the OpenAI API to the embedding, generation, and
// relevance-judgment ports. All calls run through the resilience executor.
package openai

import (
	"context"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/rerank"
	"github.com/handbook-labs/rag-playground/internal/infrastructure/resilience"
)

// judgeModel is fixed: reranking always uses the cheap tier regardless of
// the generation model under test.
const judgeModel = "gpt-4o-mini"

type Client struct {
	api  oai.Client
	exec *resilience.Executor
}

func New(apiKey, baseURL string, exec *resilience.Executor) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:  oai.NewClient(opts...),
		exec: exec,
	}
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string, model domain.EmbeddingModel) ([]float64, error) {
	var out []float64
	err := e.client.exec.Execute(ctx, "embed", func(ctx context.Context) error {
		resp, err := e.client.api.Embeddings.New(ctx, oai.EmbeddingNewParams{
			Model: oai.EmbeddingModel(model),
			Input: oai.EmbeddingNewParamsInputUnion{OfString: oai.String(text)},
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("empty embedding response")
		}
		out = resp.Data[0].Embedding
		return nil
	}, classifyAPIError)
	if err != nil {
		return nil, wrapCapabilityError("embed query", err)
	}
	return out, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Complete(ctx context.Context, systemMsg, userMsg string, cfg domain.RAGConfig) (domain.Generation, error) {
	var out domain.Generation
	err := g.client.exec.Execute(ctx, "generate", func(ctx context.Context) error {
		resp, err := g.client.api.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
			Model: oai.ChatModel(cfg.GenerationModel),
			Messages: []oai.ChatCompletionMessageParamUnion{
				oai.SystemMessage(systemMsg),
				oai.UserMessage(userMsg),
			},
			Temperature:      oai.Float(cfg.Temperature),
			MaxTokens:        oai.Int(int64(cfg.MaxTokens)),
			TopP:             oai.Float(cfg.TopP),
			FrequencyPenalty: oai.Float(cfg.FrequencyPenalty),
			PresencePenalty:  oai.Float(cfg.PresencePenalty),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty completion response")
		}
		out = domain.Generation{
			Text:             strings.TrimSpace(resp.Choices[0].Message.Content),
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
		}
		return nil
	}, classifyAPIError)
	if err != nil {
		return domain.Generation{}, wrapCapabilityError("generate answer", err)
	}
	return out, nil
}

// Judge asks the model for a relevance permutation over candidate excerpts.
type Judge struct {
	client *Client
}

func NewJudge(client *Client) *Judge {
	return &Judge{client: client}
}

func (j *Judge) Judge(ctx context.Context, query string, excerpts []string) ([]int, error) {
	var raw string
	err := j.client.exec.Execute(ctx, "judge", func(ctx context.Context) error {
		resp, err := j.client.api.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
			Model: oai.ChatModel(judgeModel),
			Messages: []oai.ChatCompletionMessageParamUnion{
				oai.UserMessage(buildJudgePrompt(query, excerpts)),
			},
			Temperature: oai.Float(0),
			MaxTokens:   oai.Int(100),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("empty judgment response")
		}
		raw = resp.Choices[0].Message.Content
		return nil
	}, classifyAPIError)
	if err != nil {
		return nil, wrapCapabilityError("judge relevance", err)
	}
	return rerank.ParsePermutation(raw, len(excerpts))
}

func buildJudgePrompt(query string, excerpts []string) string {
	var passages strings.Builder
	for i, text := range excerpts {
		fmt.Fprintf(&passages, "[%d] %s...\n\n", i, text)
	}

	return fmt.Sprintf(`You are a relevance ranker. Given a query and a list of text passages, rank them by relevance to the query. Return ONLY a JSON array of indices (0-based) in order of relevance, most relevant first.

Query: %q

Passages:
%s
Return only the JSON array of indices, e.g. [2, 0, 1, 3]`, query, passages.String())
}
