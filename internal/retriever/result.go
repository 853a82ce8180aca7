package retriever

// Result is the JSON-facing shape of one retrieval call.
type Result struct {
	Query    string      `json:"query"`
	TopN     int         `json:"top_n"`
	Returned int         `json:"returned"`
	Results  []ScoredDoc `json:"results"`
}

// Query runs a full retrieval and packages it as a Result. TopN reflects
// the effective limit after defaulting and clamping.
func (r *Retriever) Query(query string, topN int) *Result {
	if topN <= 0 {
		topN = r.defaultTopN
	}
	if topN > len(r.docs) {
		topN = len(r.docs)
	}
	scored := r.RetrieveScored(query, topN)
	return &Result{
		Query:    query,
		TopN:     topN,
		Returned: len(scored),
		Results:  scored,
	}
}
