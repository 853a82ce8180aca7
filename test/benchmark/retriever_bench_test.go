package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"lexret/internal/retriever"
	"lexret/internal/retriever/analyzer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Lexical retrieval systems rank documents by comparing weighted term
        vectors rather than exact string matches. Each document is reduced to a bag
        of lowercase tokens, weighted by how often a term appears locally and how
        rare it is across the corpus. Queries go through the same analysis pipeline
        so that scoring happens in a shared vector space.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. Term weighting considers
        local frequency and corpus-wide rarity to produce relevance scores, and
        cosine similarity compares the resulting vectors independent of document
        length. Caching layers reduce latency for repeated queries while event
        sinks record every retrieval for offline analysis. `, 20),
}

// syntheticCorpus builds numDocs documents drawn from a small rotating
// vocabulary so that terms repeat across documents the way real text does.
func syntheticCorpus(numDocs int) []string {
	vocab := []string{
		"search", "retrieval", "ranking", "vector", "cosine", "corpus",
		"document", "query", "term", "weight", "index", "cache",
		"latency", "pipeline", "token", "frequency", "score", "relevance",
	}
	docs := make([]string, numDocs)
	var sb strings.Builder
	for i := 0; i < numDocs; i++ {
		sb.Reset()
		for j := 0; j < 12; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(vocab[(i*7+j*3)%len(vocab)])
		}
		docs[i] = sb.String()
	}
	return docs
}

func fittedRetriever(b *testing.B, numDocs int) *retriever.Retriever {
	b.Helper()
	r, err := retriever.Fit(syntheticCorpus(numDocs), retriever.Options{})
	if err != nil {
		b.Fatalf("fit: %v", err)
	}
	return r
}

func BenchmarkAnalyze(b *testing.B) {
	a := analyzer.New(analyzer.Options{})
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				terms := a.Analyze(text)
				_ = terms
			}
		})
	}
}

// BenchmarkFit measures end-to-end corpus fitting (analysis, vocabulary
// construction, and vector weighting) at increasing corpus sizes.
func BenchmarkFit(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, numDocs := range sizes {
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			docs := syntheticCorpus(numDocs)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r, err := retriever.Fit(docs, retriever.Options{})
				if err != nil {
					b.Fatalf("fit: %v", err)
				}
				_ = r
			}
		})
	}
}

// BenchmarkRetrieve measures single-query latency against fitted corpora of
// increasing size. The query overlaps the synthetic vocabulary so every
// document receives a nonzero score.
func BenchmarkRetrieve(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, numDocs := range sizes {
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			r := fittedRetriever(b, numDocs)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				results := r.Retrieve("vector ranking latency", 10)
				_ = results
			}
		})
	}
}

func BenchmarkRetrieveParallel(b *testing.B) {
	r := fittedRetriever(b, 1000)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			results := r.Retrieve("cosine score relevance", 10)
			_ = results
		}
	})
}
