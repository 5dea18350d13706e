package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/okian/medals/internal/adapters/llm"
	"github.com/okian/medals/internal/adapters/repository"
	"github.com/okian/medals/internal/adapters/vectorstore"
	"github.com/okian/medals/internal/domain/query"
	"github.com/okian/medals/internal/domain/types"
	"github.com/okian/medals/pkg/metrics"
)

// Strategy names, reported as Reply.Source.
const (
	SourceResolver  = "resolver"
	SourceRetrieval = "retrieval"
	SourceLLM       = "llm"
)

// Reply is the answer to a question together with where it came from.
type Reply struct {
	query.Result
	Source    string
	Documents []types.Document
}

// Strategy is one step of the answer chain.
type Strategy interface {
	Name() string
	Answer(ctx context.Context, question string, snap *repository.Snapshot) (Reply, error)
}

// resolverStrategy answers with the deterministic resolver.
type resolverStrategy struct {
	resolver *query.Resolver
}

func (s *resolverStrategy) Name() string { return SourceResolver }

func (s *resolverStrategy) Answer(ctx context.Context, question string, snap *repository.Snapshot) (Reply, error) {
	start := time.Now()
	res := s.resolver.Resolve(ctx, question, snap.Records)
	metrics.RecordResolveLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordQuestion(string(res.Parsed.Intent), string(res.Outcome))
	return Reply{Result: res, Source: SourceResolver}, nil
}

// retrievalStrategy answers from the semantic store. With a generator the
// hits become its context; without one the hits are the answer.
type retrievalStrategy struct {
	resolver  *query.Resolver
	store     func() vectorstore.Store
	generator llm.Generator
	topK      int
}

func (s *retrievalStrategy) Name() string { return SourceRetrieval }

func (s *retrievalStrategy) Answer(ctx context.Context, question string, snap *repository.Snapshot) (Reply, error) {
	store := s.store()
	if store == nil || store.Len() == 0 {
		return Reply{Result: query.Result{Outcome: query.OutcomeUnresolved}, Source: SourceRetrieval}, nil
	}

	var opts []vectorstore.QueryOption
	p := s.resolver.Parse(question, snap.Records)
	if p.YearExplicit {
		opts = append(opts, vectorstore.Where(vectorstore.MetaYear, strconv.Itoa(p.Year)))
	}
	hits, err := store.Query(ctx, question, s.topK, opts...)
	if err != nil {
		return Reply{}, err
	}
	if len(hits) == 0 {
		return Reply{Result: query.Result{Outcome: query.OutcomeUnresolved, Parsed: p}, Source: SourceRetrieval}, nil
	}

	docs := make([]types.Document, len(hits))
	texts := make([]string, len(hits))
	for i, h := range hits {
		docs[i] = types.Document{ID: h.ID, Text: h.Text, Score: h.Score}
		texts[i] = h.Text
	}
	contextText := strings.Join(texts, "\n")

	text := contextText
	if s.generator != nil {
		text, err = s.generator.Generate(ctx, question, contextText)
		if err != nil {
			return Reply{}, err
		}
	}
	return Reply{
		Result:    query.Result{Outcome: query.OutcomeAnswer, Text: text, Parsed: p},
		Source:    SourceRetrieval,
		Documents: docs,
	}, nil
}

// llmStrategy asks the generator without dataset context.
type llmStrategy struct {
	generator llm.Generator
}

func (s *llmStrategy) Name() string { return SourceLLM }

func (s *llmStrategy) Answer(ctx context.Context, question string, _ *repository.Snapshot) (Reply, error) {
	text, err := s.generator.Generate(ctx, question, "")
	if err != nil {
		return Reply{}, err
	}
	return Reply{Result: query.Result{Outcome: query.OutcomeAnswer, Text: text}, Source: SourceLLM}, nil
}
