package search

import (
	"context"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// Repository defines the storage contract for similarity search.
type Repository interface {
	SearchKNN(
		ctx context.Context, collection string,
		query []float32, limit int, expr *filter.Expression,
	) ([]domain.Document, error)
}

// CollectionReader reads collections for dimension checks.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domain.Collection, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
