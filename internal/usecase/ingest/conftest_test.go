package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/document"
)

// --- Mocks ---

type mockRepo struct {
	insertFn func(ctx context.Context, collection string, records []document.Record) ([]int64, error)
	gotBatch []document.Record
	called   int
}

func (m *mockRepo) InsertBatch(
	ctx context.Context, collection string, records []document.Record,
) ([]int64, error) {
	m.called++
	m.gotBatch = records
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, records)
	}
	ids := make([]int64, len(records))
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

type mockColls struct {
	col domain.Collection
	err error
}

func (m *mockColls) Get(_ context.Context, _ string) (domain.Collection, error) {
	return m.col, m.err
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, texts []string) ([][]float32, error)
	called  int
}

func (m *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	m.called++
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 2}
	}
	return vectors, nil
}

func newTestService(t *testing.T, repo *mockRepo, embed *mockEmbedder) *Service {
	t.Helper()
	colls := &mockColls{col: domain.Collection{Name: "docs", Dimensions: 2}}
	return New(repo, colls, embed, zap.NewNop())
}
