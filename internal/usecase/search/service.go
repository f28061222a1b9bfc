// Package search implements filtered similarity search over a collection.
package search

import (
	"context"
	"fmt"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// Service handles similarity search.
type Service struct {
	repo  Repository
	colls CollectionReader
	embed Embedder
}

// New creates a search service.
func New(repo Repository, colls CollectionReader, embed Embedder) *Service {
	return &Service{repo: repo, colls: colls, embed: embed}
}

// Similar embeds the query and returns up to limit matching documents
// ordered by ascending distance. The filter restricts candidates before
// ranking, so fewer than limit results means fewer than limit rows matched.
func (s *Service) Similar(
	ctx context.Context, collection, query string, limit int, expr *filter.Expression,
) ([]domain.Document, error) {
	return s.similar(ctx, collection, query, limit, expr, s.embed)
}

// SimilarWith is Similar with a per-call embedder. A nil embedder falls back
// to the service default.
func (s *Service) SimilarWith(
	ctx context.Context, collection, query string, limit int, expr *filter.Expression, embed Embedder,
) ([]domain.Document, error) {
	if embed == nil {
		embed = s.embed
	}
	return s.similar(ctx, collection, query, limit, expr, embed)
}

func (s *Service) similar(
	ctx context.Context, collection, query string, limit int, expr *filter.Expression, embed Embedder,
) ([]domain.Document, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidLimit, limit)
	}

	col, err := s.colls.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	vector, err := embed.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if len(vector) != col.Dimensions {
		return nil, fmt.Errorf("query: %w", domain.NewDimensionError(len(vector), col.Dimensions))
	}

	docs, err := s.repo.SearchKNN(ctx, collection, vector, limit, expr)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return docs, nil
}
