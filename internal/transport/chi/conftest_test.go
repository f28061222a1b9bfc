package chi

import (
	"context"
	"net/http/httptest"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/document"
	collectionuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/collection"
	healthuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/health"
	ingestuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/ingest"
	searchuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/search"
)

// --- Fakes wired into real services ---

type fakeCollRepo struct {
	ensureErr error
	col       domain.Collection
	getErr    error
}

func (f *fakeCollRepo) Ensure(_ context.Context, _ string, _ int) error { return f.ensureErr }
func (f *fakeCollRepo) Get(_ context.Context, _ string) (domain.Collection, error) {
	return f.col, f.getErr
}
func (f *fakeCollRepo) Drop(_ context.Context, _ string) error { return nil }

type fakeDocRepo struct {
	ids []int64
	err error
}

func (f *fakeDocRepo) InsertBatch(_ context.Context, _ string, records []document.Record) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.ids != nil {
		return f.ids, nil
	}
	ids := make([]int64, len(records))
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

type fakeSearchRepo struct {
	docs     []domain.Document
	err      error
	lastExpr *filter.Expression
}

func (f *fakeSearchRepo) SearchKNN(
	_ context.Context, _ string, _ []float32, _ int, expr *filter.Expression,
) ([]domain.Document, error) {
	f.lastExpr = expr
	return f.docs, f.err
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = f.vec
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(_ context.Context) error { return f.err }

// env bundles the fakes behind a running test server.
type env struct {
	collRepo   *fakeCollRepo
	docRepo    *fakeDocRepo
	searchRepo *fakeSearchRepo
	embedder   *fakeEmbedder
	dbPinger   *fakePinger
	srv        *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		collRepo:   &fakeCollRepo{col: domain.Collection{Name: "docs", Dimensions: 2}},
		docRepo:    &fakeDocRepo{},
		searchRepo: &fakeSearchRepo{},
		embedder:   &fakeEmbedder{vec: []float32{1, 2}},
		dbPinger:   &fakePinger{},
	}

	log := zap.NewNop()
	server := NewServer(
		collectionuc.New(e.collRepo),
		ingestuc.New(e.docRepo, e.collRepo, e.embedder, log),
		searchuc.New(e.searchRepo, e.collRepo, e.embedder),
		healthuc.New(e.dbPinger, nil, nil),
		100,
		log,
	)

	r := gochi.NewRouter()
	server.Routes(r)

	e.srv = httptest.NewServer(r)
	t.Cleanup(e.srv.Close)
	return e
}
