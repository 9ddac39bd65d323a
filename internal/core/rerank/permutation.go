package rerank

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

var arrayPattern = regexp.MustCompile(`\[[\d,\s]+\]`)

// ParsePermutation extracts the first JSON array of indices from free-form
// judge output and validates it against n candidates: every index in range,
// no duplicates. It returns a typed unparseable error otherwise; it never
// panics on malformed input.
func ParsePermutation(raw string, n int) ([]int, error) {
	match := arrayPattern.FindString(raw)
	if match == "" {
		return nil, domain.WrapError(domain.ErrUnparseableJudgment, "parse permutation", fmt.Errorf("no index array in response"))
	}

	var indices []int
	if err := json.Unmarshal([]byte(match), &indices); err != nil {
		return nil, domain.WrapError(domain.ErrUnparseableJudgment, "parse permutation", err)
	}
	if len(indices) == 0 {
		return nil, domain.WrapError(domain.ErrUnparseableJudgment, "parse permutation", fmt.Errorf("empty index array"))
	}

	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, domain.WrapError(domain.ErrUnparseableJudgment, "parse permutation", fmt.Errorf("index %d out of range [0,%d)", idx, n))
		}
		if _, dup := seen[idx]; dup {
			return nil, domain.WrapError(domain.ErrUnparseableJudgment, "parse permutation", fmt.Errorf("duplicate index %d", idx))
		}
		seen[idx] = struct{}{}
	}
	return indices, nil
}
