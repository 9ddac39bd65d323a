package rerank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
)

type fakeJudge struct {
	indices []int
	err     error
	gotN    int
}

func (f *fakeJudge) Judge(_ context.Context, _ string, excerpts []string) ([]int, error) {
	f.gotN = len(excerpts)
	return f.indices, f.err
}

func retrieved(id string, score float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		DocumentChunk: domain.DocumentChunk{
			ID:       id,
			Text:     "text for " + id,
			Metadata: domain.ChunkMetadata{Sourcebook: domain.SourcebookPRIN},
		},
		Score: score,
	}
}

func TestRerankAppliesJudgeOrdering(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		retrieved("a", 0.9),
		retrieved("b", 0.8),
		retrieved("c", 0.7),
	}
	judge := &fakeJudge{indices: []int{2, 0, 1}}

	got := Rerank(context.Background(), judge, "query", chunks)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	wantOrder := []string{"c", "a", "b"}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
		if got[i].Rank != i+1 {
			t.Fatalf("position %d: expected rank %d, got %d", i, i+1, got[i].Rank)
		}
	}
}

func TestRerankDecaysScoresByNewPosition(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		retrieved("a", 1.0),
		retrieved("b", 1.0),
		retrieved("c", 1.0),
	}
	judge := &fakeJudge{indices: []int{0, 1, 2}}

	got := Rerank(context.Background(), judge, "query", chunks)
	want := []float64{1.0, 0.98, 0.96}
	for i := range want {
		if math.Abs(got[i].Score-want[i]) > 1e-9 {
			t.Fatalf("position %d: expected score %f, got %f", i, want[i], got[i].Score)
		}
	}
}

func TestRerankSkipsOutOfRangeIndices(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		retrieved("a", 0.9),
		retrieved("b", 0.8),
	}
	judge := &fakeJudge{indices: []int{1, 7, -1, 0}}

	got := Rerank(context.Background(), judge, "query", chunks)
	if len(got) != 2 {
		t.Fatalf("expected invalid indices to be skipped, got %d chunks", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected order [b a], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestRerankJudgeFailureIsFailSoft(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		retrieved("a", 0.9),
		retrieved("b", 0.8),
	}
	judge := &fakeJudge{err: errors.New("provider down")}

	got := Rerank(context.Background(), judge, "query", chunks)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("judge failure must return the input unchanged, got %+v", got)
	}
}

func TestRerankEmptyJudgmentIsFailSoft(t *testing.T) {
	chunks := []domain.RetrievedChunk{
		retrieved("a", 0.9),
		retrieved("b", 0.8),
	}
	judge := &fakeJudge{indices: []int{5, 9}}

	got := Rerank(context.Background(), judge, "query", chunks)
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("a judgment with no valid index must return the input unchanged, got %+v", got)
	}
}

func TestRerankSingleChunkPassthrough(t *testing.T) {
	chunks := []domain.RetrievedChunk{retrieved("only", 0.9)}
	judge := &fakeJudge{indices: []int{0}}

	got := Rerank(context.Background(), judge, "query", chunks)
	if judge.gotN != 0 {
		t.Fatal("judge must not be consulted for fewer than two candidates")
	}
	if len(got) != 1 || got[0].ID != "only" {
		t.Fatalf("expected passthrough, got %+v", got)
	}
}

func TestRerankExcerptsAreCapped(t *testing.T) {
	long := retrieved("long", 0.9)
	for len(long.Text) <= excerptChars {
		long.Text += " more regulatory text"
	}
	chunks := []domain.RetrievedChunk{long, retrieved("short", 0.8)}

	var seen []string
	judge := &judgeFunc{fn: func(excerpts []string) ([]int, error) {
		seen = excerpts
		return []int{0, 1}, nil
	}}

	Rerank(context.Background(), judge, "query", chunks)
	if len(seen) != 2 {
		t.Fatalf("expected 2 excerpts, got %d", len(seen))
	}
	if len(seen[0]) != excerptChars {
		t.Fatalf("expected excerpt capped at %d chars, got %d", excerptChars, len(seen[0]))
	}
}

type judgeFunc struct {
	fn func(excerpts []string) ([]int, error)
}

func (j *judgeFunc) Judge(_ context.Context, _ string, excerpts []string) ([]int, error) {
	return j.fn(excerpts)
}

func TestHeuristicPromotesKeywordDenseChunks(t *testing.T) {
	sparse := retrieved("sparse", 0.8)
	sparse.Text = "nothing relevant appears anywhere in this particular passage of text"
	dense := retrieved("dense", 0.8)
	dense.Text = "complaint handling complaint handling complaint handling"

	got := Rerank(context.Background(), nil, "complaint handling", []domain.RetrievedChunk{sparse, dense})
	if got[0].ID != "dense" {
		t.Fatalf("expected the keyword-dense chunk first, got %s", got[0].ID)
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("expected ranks reassigned, got %d and %d", got[0].Rank, got[1].Rank)
	}
}

func TestParsePermutationValid(t *testing.T) {
	got, err := ParsePermutation("The best ordering is [2, 0, 1] based on relevance.", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestParsePermutationRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		n    int
	}{
		{"no array", "I cannot rank these.", 3},
		{"empty array", "[ ]", 3},
		{"out of range", "[0, 3]", 2},
		{"negative via range", "[0, 1, 2]", 2},
		{"duplicates", "[0, 0, 1]", 3},
	}
	for _, tc := range cases {
		if _, err := ParsePermutation(tc.raw, tc.n); err == nil {
			t.Fatalf("%s: expected error for %q", tc.name, tc.raw)
		} else if !domain.IsKind(err, domain.ErrUnparseableJudgment) {
			t.Fatalf("%s: expected unparseable judgment kind, got %v", tc.name, err)
		}
	}
}

func TestParsePermutationSubsetAllowed(t *testing.T) {
	got, err := ParsePermutation(fmt.Sprintf("[%d]", 1), 3)
	if err != nil {
		t.Fatalf("a valid subset should parse: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1], got %v", got)
	}
}
