package vectorizer

import (
	"math"
	"testing"
)

func buildFixture() (*Vocabulary, []Vector) {
	return Build([][]string{
		{"cat", "sat", "cat"},
		{"dog", "sat"},
		{"cat", "dog", "bird"},
	})
}

func TestBuildDocumentFrequencies(t *testing.T) {
	vocab, vectors := buildFixture()

	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	tests := []struct {
		term string
		df   int
	}{
		{"cat", 2},
		{"sat", 2},
		{"dog", 2},
		{"bird", 1},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := vocab.DocFreq(tt.term); got != tt.df {
			t.Errorf("DocFreq(%q) = %d, want %d", tt.term, got, tt.df)
		}
	}
	if vocab.Size() != 4 {
		t.Errorf("Size = %d, want 4", vocab.Size())
	}
}

func TestWeightGrowsWithTermFrequency(t *testing.T) {
	vocab, _ := buildFixture()

	once := vocab.Vectorize([]string{"cat"})
	twice := vocab.Vectorize([]string{"cat", "cat"})

	var wOnce, wTwice float64
	for _, w := range once.Weights {
		wOnce = w
	}
	for _, w := range twice.Weights {
		wTwice = w
	}
	if wTwice <= wOnce {
		t.Errorf("weight for tf=2 (%v) not greater than tf=1 (%v)", wTwice, wOnce)
	}
}

func TestRarerTermWeighsMore(t *testing.T) {
	vocab, _ := buildFixture()

	// bird appears in one document, cat in two.
	rare := vocab.Vectorize([]string{"bird"})
	common := vocab.Vectorize([]string{"cat"})

	var wRare, wCommon float64
	for _, w := range rare.Weights {
		wRare = w
	}
	for _, w := range common.Weights {
		wCommon = w
	}
	if wRare <= wCommon {
		t.Errorf("rare term weight %v not greater than common term weight %v", wRare, wCommon)
	}
}

func TestVectorizeDropsUnknownTerms(t *testing.T) {
	vocab, _ := buildFixture()

	vec := vocab.Vectorize([]string{"zzqx999", "nonsense"})
	if len(vec.Weights) != 0 || vec.Norm != 0 {
		t.Errorf("unknown-only input produced %d weights, norm %v; want empty zero vector", len(vec.Weights), vec.Norm)
	}
}

func TestEmptyDocumentIsZeroVector(t *testing.T) {
	_, vectors := Build([][]string{
		{"cat"},
		{},
	})
	if len(vectors[1].Weights) != 0 || vectors[1].Norm != 0 {
		t.Errorf("empty document vector = %+v, want zero vector", vectors[1])
	}
}

func TestCosineSelfSimilarityIsOne(t *testing.T) {
	_, vectors := buildFixture()

	for i, vec := range vectors {
		got := Cosine(vec, vec)
		if math.Abs(got-1) > 1e-12 {
			t.Errorf("Cosine(doc%d, doc%d) = %v, want 1", i, i, got)
		}
	}
}

func TestCosineZeroVector(t *testing.T) {
	vocab, vectors := buildFixture()

	zero := vocab.Vectorize(nil)
	if got := Cosine(zero, vectors[0]); got != 0 {
		t.Errorf("Cosine(zero, doc0) = %v, want 0", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Errorf("Cosine(zero, zero) = %v, want 0", got)
	}
}

func TestCosineDisjointVectors(t *testing.T) {
	vocab, _ := buildFixture()

	a := vocab.Vectorize([]string{"cat"})
	b := vocab.Vectorize([]string{"dog"})
	if got := Cosine(a, b); got != 0 {
		t.Errorf("Cosine of disjoint vectors = %v, want 0", got)
	}
}
