package search

import (
	"context"
	"errors"
	"testing"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

func TestSimilar_EmbedsQueryAndDelegates(t *testing.T) {
	repo := &mockRepo{results: []domain.Document{{ID: 1, Content: "hit", Score: 0.3}}}
	embed := &mockEmbedder{vec: []float32{1, 2}}
	svc := New(repo, defaultColls(), embed)

	expr := filter.Eq("category", metadata.String("news"))
	docs, err := svc.Similar(context.Background(), "docs", "query", 5, &expr)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "hit" {
		t.Errorf("docs = %+v", docs)
	}
	if embed.called != 1 {
		t.Errorf("embedder called %d times, want 1", embed.called)
	}
	if repo.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", repo.lastLimit)
	}
	if repo.lastExpr == nil || !repo.lastExpr.IsEq() {
		t.Errorf("filter not forwarded")
	}
}

func TestSimilar_RejectsNonPositiveLimit(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{1, 2}}
	svc := New(repo, defaultColls(), embed)

	for _, limit := range []int{0, -3} {
		_, err := svc.Similar(context.Background(), "docs", "q", limit, nil)
		if !errors.Is(err, domain.ErrInvalidLimit) {
			t.Errorf("limit %d: err = %v, want ErrInvalidLimit", limit, err)
		}
	}
	if embed.called != 0 {
		t.Errorf("embedder called for invalid limit")
	}
}

func TestSimilar_QueryDimensionMismatch(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{1, 2, 3}} // collection expects 2
	svc := New(repo, defaultColls(), embed)

	_, err := svc.Similar(context.Background(), "docs", "q", 5, nil)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
	if repo.called != 0 {
		t.Errorf("repo called despite dimension mismatch")
	}
}

func TestSimilar_UnknownCollection(t *testing.T) {
	svc := New(&mockRepo{}, &mockColls{err: domain.ErrCollectionNotFound}, &mockEmbedder{vec: []float32{1, 2}})

	_, err := svc.Similar(context.Background(), "missing", "q", 5, nil)
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Fatalf("err = %v, want ErrCollectionNotFound", err)
	}
}

func TestSimilar_EmbedderFailure(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: domain.ErrEmbeddingProvider}
	svc := New(repo, defaultColls(), embed)

	_, err := svc.Similar(context.Background(), "docs", "q", 5, nil)
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("err = %v, want ErrEmbeddingProvider", err)
	}
	if repo.called != 0 {
		t.Errorf("repo called despite embed failure")
	}
}

func TestSimilarWith_OverridesServiceEmbedder(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{9, 9, 9}} // wrong dims; must stay unused
	svc := New(repo, defaultColls(), embed)

	override := &mockEmbedder{vec: []float32{1, 2}}
	if _, err := svc.SimilarWith(context.Background(), "docs", "q", 3, nil, override); err != nil {
		t.Fatalf("SimilarWith: %v", err)
	}
	if override.called != 1 {
		t.Errorf("override embedder called %d times, want 1", override.called)
	}
	if embed.called != 0 {
		t.Errorf("service embedder called %d times with an override, want 0", embed.called)
	}
}

func TestSimilarWith_NilFallsBackToServiceEmbedder(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{1, 2}}
	svc := New(repo, defaultColls(), embed)

	if _, err := svc.SimilarWith(context.Background(), "docs", "q", 3, nil, nil); err != nil {
		t.Fatalf("SimilarWith(nil): %v", err)
	}
	if embed.called != 1 {
		t.Errorf("service embedder called %d times, want 1", embed.called)
	}
}

func TestSimilar_NilFilterPassedThrough(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{1, 2}}
	svc := New(repo, defaultColls(), embed)

	if _, err := svc.Similar(context.Background(), "docs", "q", 3, nil); err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if repo.lastExpr != nil {
		t.Errorf("expected nil filter, got %+v", repo.lastExpr)
	}
}
