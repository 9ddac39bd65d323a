package corpus

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/similarity"
)

// fuzzyConfidenceFloor is the minimum lexical similarity between the asked
// question and a bank question for a fuzzy hit.
const fuzzyConfidenceFloor = 0.3

// AnswerBank resolves questions against the embedded canned-answer dataset:
// exact (case-insensitive) match first, then best fuzzy lexical match above
// the confidence floor.
type AnswerBank struct {
	entries []domain.CannedAnswer
}

func LoadAnswerBank() (*AnswerBank, error) {
	raw, err := dataFS.ReadFile("data/answers.yaml")
	if err != nil {
		return nil, fmt.Errorf("read answer bank: %w", err)
	}

	var file struct {
		Answers []domain.CannedAnswer `yaml:"answers"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse answer bank: %w", err)
	}

	return &AnswerBank{entries: file.Answers}, nil
}

// NewAnswerBank wraps fixed entries, used by tests.
func NewAnswerBank(entries []domain.CannedAnswer) *AnswerBank {
	return &AnswerBank{entries: entries}
}

func (b *AnswerBank) Lookup(query string) (*domain.CannedAnswer, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	for i := range b.entries {
		if strings.ToLower(strings.TrimSpace(b.entries[i].Question)) == q {
			return &b.entries[i], true
		}
	}

	var best *domain.CannedAnswer
	bestScore := 0.0
	for i := range b.entries {
		score := similarity.Lexical(query, b.entries[i].Question)
		if score > bestScore && score > fuzzyConfidenceFloor {
			bestScore = score
			best = &b.entries[i]
		}
	}
	return best, best != nil
}
