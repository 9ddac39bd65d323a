// Package chunking splits raw document text into overlapping segments.
// Token counts are estimated, not tokenizer-exact: 1 token ~ 4 characters.
package chunking

import (
	"regexp"
	"strings"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

// Chunk is one emitted segment with its character offsets in the input.
type Chunk struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Splitter is the strategy contract. Empty input yields no chunks; an
// indivisible unit larger than the budget is emitted whole rather than
// truncated.
type Splitter interface {
	Split(text string) []Chunk
}

// NewSplitter selects the strategy implementation. chunkSize is a token
// budget, overlapPercent converts to an absolute character overlap of
// overlapPercent% * chunkSize * 4.
func NewSplitter(strategy domain.ChunkingStrategy, chunkSize, overlapPercent int) Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlapPercent < 0 {
		overlapPercent = 0
	}
	if overlapPercent > 100 {
		overlapPercent = 100
	}
	overlapChars := chunkSize * overlapPercent / 100 * 4

	switch strategy {
	case domain.ChunkingSentence:
		return &sentenceSplitter{chunkSize: chunkSize, overlapChars: overlapChars}
	case domain.ChunkingParagraph:
		return &paragraphSplitter{chunkSize: chunkSize, overlapChars: overlapChars}
	case domain.ChunkingRecursive:
		return &recursiveSplitter{chunkSize: chunkSize, overlapChars: overlapChars}
	case domain.ChunkingFixed:
		return &fixedSplitter{chunkSize: chunkSize, overlapChars: overlapChars}
	default:
		return &fixedSplitter{chunkSize: chunkSize, overlapChars: overlapChars}
	}
}

func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

type fixedSplitter struct {
	chunkSize    int
	overlapChars int
}

func (s *fixedSplitter) Split(text string) []Chunk {
	if text == "" {
		return nil
	}

	window := s.chunkSize * 4
	step := window - s.overlapChars
	if step <= 0 {
		step = window
	}

	out := make([]Chunk, 0, len(text)/step+1)
	for start := 0; start < len(text); start += step {
		end := start + window
		if end > len(text) {
			end = len(text)
		}
		trimmed := strings.TrimSpace(text[start:end])
		if trimmed != "" {
			out = append(out, Chunk{Text: trimmed, Start: start, End: end})
		}
		if end == len(text) {
			break
		}
	}
	return out
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+\s*`)

type sentenceSplitter struct {
	chunkSize    int
	overlapChars int
}

func (s *sentenceSplitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	return accumulate(sentences, "", s.chunkSize, s.overlapChars)
}

var paragraphPattern = regexp.MustCompile(`\n\s*\n`)

type paragraphSplitter struct {
	chunkSize    int
	overlapChars int
}

func (s *paragraphSplitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := paragraphPattern.Split(text, -1)
	paragraphs := raw[:0]
	for _, p := range raw {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil
	}
	return accumulate(paragraphs, "\n\n", s.chunkSize, s.overlapChars)
}

// accumulate greedily packs units into chunks up to the token budget, seeding
// each new chunk with the trailing overlap of the previous one. A single unit
// over the budget is kept whole.
func accumulate(units []string, joiner string, chunkSize, overlapChars int) []Chunk {
	var (
		out        []Chunk
		current    string
		chunkStart int
		currentPos int
	)

	for _, unit := range units {
		candidate := unit
		if current != "" {
			candidate = current + joiner + unit
		}
		if estimateTokens(candidate) > chunkSize && current != "" {
			out = append(out, Chunk{
				Text:  strings.TrimSpace(current),
				Start: chunkStart,
				End:   currentPos,
			})
			overlapText := tail(current, overlapChars)
			current = overlapText + unit
			chunkStart = currentPos - len(overlapText)
		} else {
			current = candidate
		}
		currentPos += len(unit) + len(joiner)
	}

	if strings.TrimSpace(current) != "" {
		out = append(out, Chunk{
			Text:  strings.TrimSpace(current),
			Start: chunkStart,
			End:   currentPos,
		})
	}
	return out
}

func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

type recursiveSplitter struct {
	chunkSize    int
	overlapChars int
}

var recursiveSeparators = []string{"\n\n\n", "\n\n", "\n", ". ", " "}

func (s *recursiveSplitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, recursiveSeparators, 0)
}

func (s *recursiveSplitter) split(text string, separators []string, offset int) []Chunk {
	if estimateTokens(text) <= s.chunkSize {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []Chunk{{Text: trimmed, Start: offset, End: offset + len(text)}}
	}

	separator := " "
	if len(separators) > 0 {
		separator = separators[0]
	}
	var remaining []string
	if len(separators) > 1 {
		remaining = separators[1:]
	}
	parts := strings.Split(text, separator)

	var (
		out           []Chunk
		current       string
		currentOffset = offset
	)

	emit := func() {
		if estimateTokens(current) > s.chunkSize && len(remaining) > 0 {
			out = append(out, s.split(current, remaining, currentOffset)...)
			return
		}
		out = append(out, Chunk{
			Text:  strings.TrimSpace(current),
			Start: currentOffset,
			End:   currentOffset + len(current),
		})
	}

	for _, part := range parts {
		candidate := part
		if current != "" {
			candidate = current + separator + part
		}
		if estimateTokens(candidate) > s.chunkSize && current != "" {
			emit()
			overlapText := tail(current, s.overlapChars)
			currentOffset = currentOffset + len(current) - len(overlapText)
			current = overlapText + part
		} else {
			current = candidate
		}
	}

	if strings.TrimSpace(current) != "" {
		emit()
	}
	return out
}
