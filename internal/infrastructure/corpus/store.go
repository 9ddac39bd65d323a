// Package corpus loads the embedded FCA Handbook demo dataset: the chunk
// collection the retriever scores, and the canned answer bank used by
// simulated mode. Both are read-only after load.
package corpus

import (
	"embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

//go:embed data/chunks.yaml data/answers.yaml
var dataFS embed.FS

// Store is the process-wide read-only chunk collection. Safe for unlimited
// concurrent readers; nothing mutates it after Load.
type Store struct {
	chunks []domain.DocumentChunk
}

func Load() (*Store, error) {
	raw, err := dataFS.ReadFile("data/chunks.yaml")
	if err != nil {
		return nil, fmt.Errorf("read corpus dataset: %w", err)
	}

	var file struct {
		Chunks []domain.DocumentChunk `yaml:"chunks"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse corpus dataset: %w", err)
	}
	if len(file.Chunks) == 0 {
		return nil, fmt.Errorf("corpus dataset is empty")
	}

	for i := range file.Chunks {
		if file.Chunks[i].ID == "" {
			file.Chunks[i].ID = uuid.NewString()
		}
		if !file.Chunks[i].Metadata.Sourcebook.Valid() {
			return nil, fmt.Errorf("chunk %s: unknown sourcebook %q", file.Chunks[i].ID, file.Chunks[i].Metadata.Sourcebook)
		}
		if file.Chunks[i].Text == "" {
			return nil, fmt.Errorf("chunk %s: empty text", file.Chunks[i].ID)
		}
	}

	return &Store{chunks: file.Chunks}, nil
}

// NewStore wraps a fixed chunk collection, used by tests to substitute a
// small corpus.
func NewStore(chunks []domain.DocumentChunk) *Store {
	return &Store{chunks: chunks}
}

func (s *Store) Chunks() []domain.DocumentChunk {
	return s.chunks
}
