package vectorstore

import (
	"math"

	"github.com/okian/medals/pkg/fold"
)

// stopwords are dropped from documents and queries.
var stopwords = map[string]struct{}{
	"a": {}, "al": {}, "de": {}, "del": {}, "el": {}, "en": {}, "la": {}, "las": {}, "los": {},
	"y": {}, "o": {}, "que": {}, "un": {}, "una": {}, "por": {}, "con": {}, "se": {}, "su": {},
	"the": {}, "of": {}, "in": {}, "and": {}, "to": {}, "did": {}, "how": {}, "many": {},
}

// tokenize folds text and splits it into index terms.
func tokenize(text string) []string {
	raw := fold.Tokens(text)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// bm25 holds corpus statistics for Okapi BM25 scoring.
type bm25 struct {
	k1, b     float64
	avgDocLen float64
	docCount  int
	docFreq   map[string]int
	idf       map[string]float64
}

func newBM25() *bm25 {
	return &bm25{
		k1:      1.5,
		b:       0.75,
		docFreq: map[string]int{},
		idf:     map[string]float64{},
	}
}

// index recomputes statistics over the token lists of all documents.
func (s *bm25) index(docs [][]string) {
	s.docCount = len(docs)
	s.docFreq = make(map[string]int)
	s.idf = make(map[string]float64)

	total := 0
	for _, tokens := range docs {
		total += len(tokens)
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				s.docFreq[t]++
			}
		}
	}
	s.avgDocLen = 0
	if s.docCount > 0 {
		s.avgDocLen = float64(total) / float64(s.docCount)
	}
	for term, df := range s.docFreq {
		s.idf[term] = math.Log((float64(s.docCount)-float64(df)+0.5)/(float64(df)+0.5) + 1.0)
	}
}

// score returns the BM25 score of a document for the query terms.
func (s *bm25) score(query []string, doc []string) float64 {
	if len(doc) == 0 || s.avgDocLen == 0 {
		return 0
	}
	tf := make(map[string]int, len(doc))
	for _, t := range doc {
		tf[t]++
	}
	norm := s.k1 * (1 - s.b + s.b*float64(len(doc))/s.avgDocLen)

	var total float64
	for _, q := range query {
		f := float64(tf[q])
		if f == 0 {
			continue
		}
		total += s.idf[q] * (f * (s.k1 + 1)) / (f + norm)
	}
	return total
}
