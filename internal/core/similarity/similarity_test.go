package similarity

import (
	"math"
	"testing"
)

func TestCosineIdenticalVectors(t *testing.T) {
	v := []float64{0.3, 0.5, 0.8}
	if got := Cosine(v, v); math.Abs(got-1) > 1e-9 {
		t.Fatalf("cosine of identical vectors should be 1, got %f", got)
	}
}

func TestCosineOrthogonalVectors(t *testing.T) {
	if got := Cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Fatalf("cosine of orthogonal vectors should be 0, got %f", got)
	}
}

func TestCosineSymmetric(t *testing.T) {
	a := []float64{0.2, 0.9, 0.1}
	b := []float64{0.7, 0.3, 0.5}
	if Cosine(a, b) != Cosine(b, a) {
		t.Fatal("cosine must be symmetric")
	}
}

func TestCosineDegenerateInputs(t *testing.T) {
	if got := Cosine([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Fatalf("length mismatch should score 0, got %f", got)
	}
	if got := Cosine([]float64{0, 0}, []float64{1, 1}); got != 0 {
		t.Fatalf("zero-magnitude vector should score 0, got %f", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Fatalf("empty vectors should score 0, got %f", got)
	}
}

func TestLexicalExactMatch(t *testing.T) {
	got := Lexical("complaints handling procedures", "complaints handling procedures")
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical token sets should score 1, got %f", got)
	}
}

func TestLexicalNoOverlap(t *testing.T) {
	if got := Lexical("complaints handling", "embedding vectors cosine"); got != 0 {
		t.Fatalf("disjoint token sets should score 0, got %f", got)
	}
}

func TestLexicalEmptyQuery(t *testing.T) {
	if got := Lexical("", "some text"); got != 0 {
		t.Fatalf("empty query should score 0, got %f", got)
	}
	// Tokens at or below two characters and stop words all drop out.
	if got := Lexical("the and is of", "some text"); got != 0 {
		t.Fatalf("stop-word-only query should score 0, got %f", got)
	}
}

func TestLexicalWeighting(t *testing.T) {
	// Query tokens: [fca, principles, businesses]. Text contains all three
	// plus one extra token, so matchRatio = 1 and jaccard = 3/4.
	got := Lexical("FCA principles businesses", "fca principles businesses integrity")
	want := 1.0*0.7 + 0.75*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestLexicalBounded(t *testing.T) {
	queries := []string{"complaints", "fca principles", "insurance demands needs"}
	texts := []string{"", "complaints complaints complaints", "insurance contract demands and needs statement"}
	for _, q := range queries {
		for _, txt := range texts {
			got := Lexical(q, txt)
			if got < 0 || got > 1 {
				t.Fatalf("Lexical(%q, %q) = %f out of [0,1]", q, txt, got)
			}
		}
	}
}

func TestTextOverlapIdentical(t *testing.T) {
	if got := TextOverlap("alpha beta gamma", "alpha beta gamma"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical texts should overlap fully, got %f", got)
	}
}

func TestTextOverlapDisjoint(t *testing.T) {
	if got := TextOverlap("alpha beta", "gamma delta"); got != 0 {
		t.Fatalf("disjoint texts should score 0, got %f", got)
	}
	if got := TextOverlap("", ""); got != 0 {
		t.Fatalf("empty texts should score 0, got %f", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("The FCA's 12 Principles for Businesses!")
	want := []string{"fca", "principles", "businesses"}
	if len(got) != len(want) {
		t.Fatalf("expected tokens %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
