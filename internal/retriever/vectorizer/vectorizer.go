// Package vectorizer builds the sparse TF-IDF representation of a corpus:
// a vocabulary mapping terms to ids, per-term document frequencies, and one
// weight vector per document. The weighting is the smoothed scheme
//
//	weight(t, d) = tf(t, d) * (ln((1+N)/(1+df(t))) + 1)
//
// so a term absent from the whole corpus scores zero, weights grow with
// within-document frequency, and rarer terms weigh more. Query vectors are
// produced with the same vocabulary and formula; out-of-vocabulary query
// terms are dropped.
package vectorizer

import "math"

// Vocabulary maps terms observed in a corpus to dense ids and records how
// many documents each term appears in. It is built once and read-only
// afterwards.
type Vocabulary struct {
	ids     map[string]int
	df      []int
	numDocs int
}

// Vector is a sparse weight vector keyed by term id, with its precomputed
// Euclidean norm.
type Vector struct {
	Weights map[int]float64
	Norm    float64
}

// Build constructs the Vocabulary and one weight Vector per document from
// already-analyzed documents. A document with no terms yields an all-zero
// vector (empty weights, zero norm).
func Build(docs [][]string) (*Vocabulary, []Vector) {
	v := &Vocabulary{
		ids:     make(map[string]int),
		numDocs: len(docs),
	}

	counts := make([]map[int]int, len(docs))
	for i, terms := range docs {
		seen := make(map[int]struct{}, len(terms))
		counts[i] = make(map[int]int, len(terms))
		for _, term := range terms {
			id, ok := v.ids[term]
			if !ok {
				id = len(v.ids)
				v.ids[term] = id
				v.df = append(v.df, 0)
			}
			counts[i][id]++
			seen[id] = struct{}{}
		}
		for id := range seen {
			v.df[id]++
		}
	}

	vectors := make([]Vector, len(docs))
	for i, tf := range counts {
		vectors[i] = v.weigh(tf)
	}
	return v, vectors
}

// Vectorize produces the weight vector for a single analyzed text using the
// fitted vocabulary. Unknown terms are ignored; an all-out-of-vocabulary
// input yields a zero vector.
func (v *Vocabulary) Vectorize(terms []string) Vector {
	tf := make(map[int]int, len(terms))
	for _, term := range terms {
		if id, ok := v.ids[term]; ok {
			tf[id]++
		}
	}
	return v.weigh(tf)
}

// Size returns the number of distinct terms in the vocabulary.
func (v *Vocabulary) Size() int {
	return len(v.ids)
}

// DocFreq returns the number of corpus documents containing term, or 0 for
// unknown terms.
func (v *Vocabulary) DocFreq(term string) int {
	if id, ok := v.ids[term]; ok {
		return v.df[id]
	}
	return 0
}

func (v *Vocabulary) weigh(tf map[int]int) Vector {
	weights := make(map[int]float64, len(tf))
	var sumSquares float64
	for id, freq := range tf {
		w := float64(freq) * v.idf(id)
		weights[id] = w
		sumSquares += w * w
	}
	return Vector{Weights: weights, Norm: math.Sqrt(sumSquares)}
}

func (v *Vocabulary) idf(id int) float64 {
	return math.Log(float64(1+v.numDocs)/float64(1+v.df[id])) + 1
}

// Cosine returns the cosine similarity of two vectors. A zero vector on
// either side yields 0 rather than dividing by zero.
func Cosine(a, b Vector) float64 {
	if a.Norm == 0 || b.Norm == 0 {
		return 0
	}
	small, large := a.Weights, b.Weights
	if len(large) < len(small) {
		small, large = large, small
	}
	var dot float64
	for id, w := range small {
		if other, ok := large[id]; ok {
			dot += w * other
		}
	}
	return dot / (a.Norm * b.Norm)
}
