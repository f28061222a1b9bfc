package ingest

import (
	"context"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/document"
)

// Repository defines the storage contract for document ingestion.
type Repository interface {
	InsertBatch(ctx context.Context, collection string, records []document.Record) ([]int64, error)
}

// CollectionReader reads collections for dimension checks.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domain.Collection, error)
}

// Embedder vectorizes document texts.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
