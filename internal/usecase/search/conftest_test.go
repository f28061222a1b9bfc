package search

import (
	"context"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// --- Mocks ---

type mockRepo struct {
	results   []domain.Document
	err       error
	called    int
	lastQuery []float32
	lastLimit int
	lastExpr  *filter.Expression
}

func (m *mockRepo) SearchKNN(
	_ context.Context, _ string,
	query []float32, limit int, expr *filter.Expression,
) ([]domain.Document, error) {
	m.called++
	m.lastQuery = query
	m.lastLimit = limit
	m.lastExpr = expr
	return m.results, m.err
}

type mockColls struct {
	col domain.Collection
	err error
}

func (m *mockColls) Get(_ context.Context, _ string) (domain.Collection, error) {
	return m.col, m.err
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called int
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	m.called++
	return m.vec, m.err
}

func defaultColls() *mockColls {
	return &mockColls{col: domain.Collection{Name: "docs", Dimensions: 2}}
}
