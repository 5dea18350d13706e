// Package vectorstore is the semantic store used when the resolver cannot
// answer a question: medal table sentences ranked against the question.
package vectorstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ScoredDocument is a query hit.
type ScoredDocument struct {
	ID       string
	Text     string
	Score    float64
	Metadata map[string]string
}

// Store is the contract consumed by the retrieval strategy.
type Store interface {
	Upsert(ctx context.Context, docs, ids []string, metadata []map[string]string) error
	Query(ctx context.Context, text string, k int, opts ...QueryOption) ([]ScoredDocument, error)
	Len() int
}

type document struct {
	id       string
	text     string
	tokens   []string
	metadata map[string]string
}

// MemoryStore keeps documents in memory and ranks them with BM25.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*document
	bm25 *bm25
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*document),
		bm25: newBM25(),
	}
}

// Upsert adds or replaces documents. ids and metadata are optional and,
// when present, must match docs in length; an empty id gets a random UUID.
func (s *MemoryStore) Upsert(_ context.Context, docs, ids []string, metadata []map[string]string) error {
	if (ids != nil && len(ids) != len(docs)) || (metadata != nil && len(metadata) != len(docs)) {
		return ErrLengthMismatch
	}
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, text := range docs {
		d := &document{text: text, tokens: tokenize(text), metadata: map[string]string{}}
		if ids != nil {
			d.id = ids[i]
		}
		if d.id == "" {
			d.id = uuid.NewString()
		}
		if metadata != nil {
			for k, v := range metadata[i] {
				d.metadata[k] = v
			}
		}
		s.docs[d.id] = d
	}
	s.reindex()
	return nil
}

// Delete removes documents by id.
func (s *MemoryStore) Delete(_ context.Context, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.docs, id)
	}
	s.reindex()
}

// Reset drops every document.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*document)
	s.reindex()
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Query returns up to k documents by descending score, ties by id.
// Documents sharing no term with text are not returned.
func (s *MemoryStore) Query(ctx context.Context, text string, k int, opts ...QueryOption) ([]ScoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var qo queryOptions
	for _, opt := range opts {
		opt(&qo)
	}
	terms := tokenize(text)
	if len(terms) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []ScoredDocument
	for _, d := range s.docs {
		if !qo.matches(d.metadata) {
			continue
		}
		score := s.bm25.score(terms, d.tokens)
		if score <= 0 {
			continue
		}
		hits = append(hits, ScoredDocument{ID: d.id, Text: d.text, Score: score, Metadata: d.metadata})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].Score > hits[j].Score
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// reindex must be called with s.mu held for writing.
func (s *MemoryStore) reindex() {
	all := make([][]string, 0, len(s.docs))
	for _, d := range s.docs {
		all = append(all, d.tokens)
	}
	s.bm25.index(all)
}
