// Package httpadapter exposes the playground over a JSON HTTP API.
package httpadapter

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/handbook-labs/rag-playground/internal/config"
	"github.com/handbook-labs/rag-playground/internal/core/chunking"
	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/ports"
	"github.com/handbook-labs/rag-playground/internal/core/pricing"
	"github.com/handbook-labs/rag-playground/internal/infrastructure/extractor/pdftext"
	"github.com/handbook-labs/rag-playground/internal/observability/metrics"
)

const (
	serviceName        = "rag-playground-api"
	backpressureSlots  = 64
	backpressureWaitMS = 200
)

type Router struct {
	cfg      config.Config
	runner   ports.QueryRunner
	comparer ports.QueryComparer
	embedder ports.Embedder
	metrics  *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	runner ports.QueryRunner,
	comparer ports.QueryComparer,
	embedder ports.Embedder,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:      cfg,
		runner:   runner,
		comparer: comparer,
		embedder: embedder,
		metrics:  serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/query", rt.runQuery)
	mux.HandleFunc("/v1/query/compare", rt.compareQuery)
	mux.HandleFunc("/v1/embed", rt.embed)
	mux.HandleFunc("/v1/chunks/preview", rt.previewChunks)
	mux.HandleFunc("/v1/config/default", rt.defaultConfig)
	mux.HandleFunc("/v1/sourcebooks", rt.sourcebooks)
	mux.HandleFunc("/v1/questions", rt.questions)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = backpressureMiddleware(handler, backpressureSlots, backpressureWaitMS*time.Millisecond)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type queryRequest struct {
	Query  string            `json:"query"`
	Config *domain.RAGConfig `json:"config"`
}

func (rt *Router) runQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cfg := domain.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	result, err := rt.runner.Execute(r.Context(), req.Query, cfg)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	Query   string            `json:"query"`
	ConfigA *domain.RAGConfig `json:"config_a"`
	ConfigB *domain.RAGConfig `json:"config_b"`
}

func (rt *Router) compareQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	cfgA := domain.DefaultConfig()
	if req.ConfigA != nil {
		cfgA = *req.ConfigA
	}
	cfgB := domain.DefaultConfig()
	if req.ConfigB != nil {
		cfgB = *req.ConfigB
	}

	result, err := rt.comparer.Compare(r.Context(), req.Query, cfgA, cfgB)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type embedRequest struct {
	Text  string                `json:"text"`
	Model domain.EmbeddingModel `json:"model"`
}

type embedResponse struct {
	Model         domain.EmbeddingModel `json:"model"`
	Dimensions    int                   `json:"dimensions"`
	Embedding     []float64             `json:"embedding"`
	Tokens        int                   `json:"tokens"`
	EstimatedCost float64               `json:"estimated_cost"`
}

func (rt *Router) embed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Model == "" {
		req.Model = domain.DefaultConfig().EmbeddingModel
	}
	if !req.Model.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown embedding model %q", req.Model))
		return
	}

	if rt.embedder == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"demo_mode": true,
			"message":   "no embedding capability configured, queries run in simulated mode",
		})
		return
	}

	vector, err := rt.embedder.EmbedQuery(r.Context(), req.Text, req.Model)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	tokens := pricing.EstimateTokens(req.Text)
	writeJSON(w, http.StatusOK, embedResponse{
		Model:         req.Model,
		Dimensions:    len(vector),
		Embedding:     vector,
		Tokens:        tokens,
		EstimatedCost: pricing.EmbeddingCost(req.Model, tokens),
	})
}

type previewRequest struct {
	Text           string                  `json:"text"`
	Strategy       domain.ChunkingStrategy `json:"strategy"`
	ChunkSize      int                     `json:"chunk_size"`
	OverlapPercent int                     `json:"overlap_percent"`
}

type previewChunk struct {
	chunking.Chunk
	Tokens int `json:"tokens"`
}

type previewResponse struct {
	Strategy       domain.ChunkingStrategy `json:"strategy"`
	ChunkSize      int                     `json:"chunk_size"`
	OverlapPercent int                     `json:"overlap_percent"`
	TotalChunks    int                     `json:"total_chunks"`
	Chunks         []previewChunk          `json:"chunks"`
}

func (rt *Router) previewChunks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, ok := rt.decodePreviewRequest(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "no text to chunk")
		return
	}
	if req.Strategy == "" {
		req.Strategy = domain.DefaultConfig().ChunkingStrategy
	}
	if !req.Strategy.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chunking strategy %q", req.Strategy))
		return
	}
	if req.ChunkSize == 0 {
		req.ChunkSize = domain.DefaultConfig().ChunkSize
	}

	splitter := chunking.NewSplitter(req.Strategy, req.ChunkSize, req.OverlapPercent)
	raw := splitter.Split(req.Text)

	chunks := make([]previewChunk, 0, len(raw))
	for _, c := range raw {
		chunks = append(chunks, previewChunk{
			Chunk:  c,
			Tokens: pricing.EstimateTokens(c.Text),
		})
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Strategy:       req.Strategy,
		ChunkSize:      req.ChunkSize,
		OverlapPercent: req.OverlapPercent,
		TotalChunks:    len(chunks),
		Chunks:         chunks,
	})
}

// decodePreviewRequest accepts either a JSON body with inline text or a
// multipart upload carrying a PDF in the "file" field with the tuning knobs
// as form values.
func (rt *Router) decodePreviewRequest(w http.ResponseWriter, r *http.Request) (previewRequest, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req previewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return previewRequest{}, false
		}
		return req, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return previewRequest{}, false
	}
	defer file.Close()

	text, err := pdftext.Extract(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return previewRequest{}, false
	}

	req := previewRequest{
		Text:     text,
		Strategy: domain.ChunkingStrategy(r.FormValue("strategy")),
	}
	if v := r.FormValue("chunk_size"); v != "" {
		req.ChunkSize, _ = strconv.Atoi(v)
	}
	if v := r.FormValue("overlap_percent"); v != "" {
		req.OverlapPercent, _ = strconv.Atoi(v)
	}
	return req, true
}

func (rt *Router) defaultConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, domain.DefaultConfig())
}

func (rt *Router) sourcebooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sourcebooks": domain.SourcebookCatalogue()})
}

func (rt *Router) questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": domain.ExampleQuestions()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
