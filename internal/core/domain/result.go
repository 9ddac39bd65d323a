package domain

// QueryMetrics is the per-query accounting bundle. Token totals are enforced
// (total = prompt + completion); latency totals are built from stage timings
// and may differ from the sum of the reported stage values because simulated
// mode adds jitter to individual stages only.
type QueryMetrics struct {
	RetrievalLatencyMs   float64 `json:"retrieval_latency_ms" yaml:"retrieval_latency_ms"`
	GenerationLatencyMs  float64 `json:"generation_latency_ms" yaml:"generation_latency_ms"`
	TotalLatencyMs       float64 `json:"total_latency_ms" yaml:"total_latency_ms"`
	PromptTokens         int     `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens     int     `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens          int     `json:"total_tokens" yaml:"total_tokens"`
	EstimatedCost        float64 `json:"estimated_cost" yaml:"estimated_cost"`
	ChunksRetrieved      int     `json:"chunks_retrieved" yaml:"chunks_retrieved"`
	ChunksAfterThreshold int     `json:"chunks_after_threshold" yaml:"chunks_after_threshold"`
}

// QueryResult is the final bundle for one query execution. Live and simulated
// mode produce the identical shape.
type QueryResult struct {
	Answer          string           `json:"answer"`
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks"`
	Metrics         QueryMetrics     `json:"metrics"`
	RawPrompt       string           `json:"raw_prompt,omitempty"`
	Config          RAGConfig        `json:"config"`
}

// ComparisonResult bundles two independent query cycles over the same
// question, typically with differing configurations.
type ComparisonResult struct {
	Query string       `json:"query"`
	A     *QueryResult `json:"a"`
	B     *QueryResult `json:"b"`
}

// CannedAnswer is one entry of the static answer bank used by simulated mode.
type CannedAnswer struct {
	Question string       `json:"question" yaml:"question"`
	Answer   string       `json:"answer" yaml:"answer"`
	ChunkIDs []string     `json:"chunk_ids" yaml:"chunk_ids"`
	Metrics  QueryMetrics `json:"metrics" yaml:"metrics"`
}

// Generation is the provider-reported outcome of one completion call.
type Generation struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
