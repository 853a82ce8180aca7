// Package retriever implements TF-IDF document retrieval over a fixed
// corpus. A Retriever is fitted once from an ordered document list and is
// read-only afterwards, so it may be shared across concurrent readers
// without locking; each Retrieve call works on its own ephemeral query
// vector.
package retriever

import (
	"fmt"
	"math"
	"sort"

	"lexret/internal/retriever/analyzer"
	"lexret/internal/retriever/vectorizer"
	pkgerrors "lexret/pkg/errors"
)

// DefaultTopN is the result count used when a caller passes topN <= 0.
const DefaultTopN = 3

// Options configures fitting. The zero value uses plain lower-case
// boundary-split tokenization and DefaultTopN.
type Options struct {
	Analyzer    analyzer.Options
	DefaultTopN int
}

// ScoredDoc is a single ranked retrieval result.
type ScoredDoc struct {
	Index    int     `json:"index"`
	Document string  `json:"document"`
	Score    float64 `json:"score"`
}

// Retriever holds the immutable fitted state: the original documents, the
// vocabulary, and one weight vector per document.
type Retriever struct {
	docs        []string
	vocab       *vectorizer.Vocabulary
	vectors     []vectorizer.Vector
	analyzer    *analyzer.Analyzer
	defaultTopN int
}

// Fit builds a Retriever from an ordered document corpus. Document identity
// is positional and stable for the retriever's lifetime. An empty corpus
// fails with ErrInvalidCorpus; empty documents are tolerated and become
// all-zero vectors. No partial state is produced on failure.
func Fit(documents []string, opts Options) (*Retriever, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty, no terms to index", pkgerrors.ErrInvalidCorpus)
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = DefaultTopN
	}

	a := analyzer.New(opts.Analyzer)
	analyzed := make([][]string, len(documents))
	for i, doc := range documents {
		analyzed[i] = a.Analyze(doc)
	}
	vocab, vectors := vectorizer.Build(analyzed)

	docs := make([]string, len(documents))
	copy(docs, documents)

	return &Retriever{
		docs:        docs,
		vocab:       vocab,
		vectors:     vectors,
		analyzer:    a,
		defaultTopN: opts.DefaultTopN,
	}, nil
}

// Retrieve returns up to topN documents ranked by descending cosine
// similarity to the query. topN <= 0 uses the fitted default; topN larger
// than the corpus is clamped to the corpus size. A query that shares no
// vocabulary with the corpus returns an empty slice rather than an error,
// since a zero query vector has no defined cosine similarity.
func (r *Retriever) Retrieve(query string, topN int) []string {
	scored := r.RetrieveScored(query, topN)
	results := make([]string, len(scored))
	for i, s := range scored {
		results[i] = s.Document
	}
	return results
}

// RetrieveScored is Retrieve with document indexes and similarity scores.
// Every corpus document participates in ranking, so topN equal to the
// corpus size returns a full permutation; exact score ties are broken by
// lower document index and the ordering is deterministic for fixed inputs.
func (r *Retriever) RetrieveScored(query string, topN int) []ScoredDoc {
	if topN <= 0 {
		topN = r.defaultTopN
	}
	if topN > len(r.docs) {
		topN = len(r.docs)
	}

	queryVec := r.vocab.Vectorize(r.analyzer.Analyze(query))
	if len(queryVec.Weights) == 0 {
		return []ScoredDoc{}
	}

	scored := make([]ScoredDoc, len(r.docs))
	for i, docVec := range r.vectors {
		scored[i] = ScoredDoc{
			Index:    i,
			Document: r.docs[i],
			Score:    vectorizer.Cosine(queryVec, docVec),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})
	scored = scored[:topN]
	for i := range scored {
		scored[i].Score = math.Round(scored[i].Score*10000) / 10000
	}
	return scored
}

// DocCount returns the corpus size.
func (r *Retriever) DocCount() int {
	return len(r.docs)
}

// VocabSize returns the number of distinct indexed terms.
func (r *Retriever) VocabSize() int {
	return r.vocab.Size()
}

// Document returns the original document at index i.
func (r *Retriever) Document(i int) string {
	return r.docs[i]
}
