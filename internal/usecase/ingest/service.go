// Package ingest implements batch document ingestion: one embedding call for
// the whole batch, then one storage transaction for the whole batch.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/document"
)

// Service handles document ingestion.
type Service struct {
	repo  Repository
	colls CollectionReader
	embed Embedder
	log   *zap.Logger
}

// New creates an ingest service.
func New(repo Repository, colls CollectionReader, embed Embedder, log *zap.Logger) *Service {
	return &Service{repo: repo, colls: colls, embed: embed, log: log}
}

// AddDocuments embeds and stores a batch of documents, returning their
// assigned ids in input order. Embedding happens before any storage write, so
// a provider failure leaves the store untouched; the storage write itself is
// a single transaction, so either every document lands or none do.
func (s *Service) AddDocuments(
	ctx context.Context, collection string, docs []domain.Document,
) ([]int64, error) {
	return s.addDocuments(ctx, collection, docs, s.embed)
}

// AddDocumentsWith is AddDocuments with a per-call embedder. A nil embedder
// falls back to the service default.
func (s *Service) AddDocumentsWith(
	ctx context.Context, collection string, docs []domain.Document, embed Embedder,
) ([]int64, error) {
	if embed == nil {
		embed = s.embed
	}
	return s.addDocuments(ctx, collection, docs, embed)
}

func (s *Service) addDocuments(
	ctx context.Context, collection string, docs []domain.Document, embed Embedder,
) ([]int64, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	col, err := s.colls.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		if doc.Content == "" {
			return nil, fmt.Errorf("%w: document %d", domain.ErrEmptyContent, i)
		}
		texts[i] = doc.Content
	}

	batchID := uuid.NewString()
	s.log.Debug("embedding document batch",
		zap.String("batch_id", batchID),
		zap.String("collection", collection),
		zap.Int("count", len(texts)))

	vectors, err := embed.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: got %d vectors for %d documents",
			domain.ErrEmbeddingCountMismatch, len(vectors), len(docs))
	}

	records := make([]document.Record, len(docs))
	for i, doc := range docs {
		if len(vectors[i]) != col.Dimensions {
			return nil, fmt.Errorf("document %d: %w", i,
				domain.NewDimensionError(len(vectors[i]), col.Dimensions))
		}
		meta, err := doc.Metadata.Encode()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w: %w", i, domain.ErrInvalidMetadata, err)
		}
		records[i] = document.Record{
			Text:      doc.Content,
			Metadata:  meta,
			Embedding: vectors[i],
		}
	}

	ids, err := s.repo.InsertBatch(ctx, collection, records)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	s.log.Info("document batch stored",
		zap.String("batch_id", batchID),
		zap.String("collection", collection),
		zap.Int("count", len(ids)))
	return ids, nil
}
