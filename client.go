// Package chunkdex is an embeddable vector search store over SQLite: text
// chunks go in with JSON metadata, similarity search with metadata filters
// comes out. Embeddings are produced by a pluggable provider and optionally
// cached in Redis.
package chunkdex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	dbredis "github.com/ridgeline-cloud/chunkdex/internal/db/redis"
	"github.com/ridgeline-cloud/chunkdex/internal/db/sqlite"
	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	collectionrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/collection"
	documentrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/document"
	"github.com/ridgeline-cloud/chunkdex/internal/repository/embcache"
	searchrepo "github.com/ridgeline-cloud/chunkdex/internal/repository/search"
	collectionuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/collection"
	ingestuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/ingest"
	searchuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/search"
)

const defaultMaxBatchSize = 100

// Embedder vectorizes texts. EmbedDocuments must return exactly one vector
// per input text, in input order.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Document is a text chunk with metadata. ID and Score are populated only on
// search results.
type Document struct {
	ID       int64
	Content  string
	Metadata map[string]any
	Score    float64
}

// Store is the chunkdex entry point.
type Store struct {
	conn         *sql.DB
	cache        *dbredis.Store
	collSvc      *collectionuc.Service
	ingestSvc    *ingestuc.Service
	searchSvc    *searchuc.Service
	maxBatchSize int
}

// Open opens (or creates) a store backed by the SQLite database at path.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := &storeConfig{maxBatchSize: defaultMaxBatchSize}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.maxBatchSize <= 0 {
		cfg.maxBatchSize = defaultMaxBatchSize
	}

	conn, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunkdex: open database: %w", err)
	}

	var cache *dbredis.Store
	var embedder domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		embedder = cfg.embedder
	}
	if len(cfg.cacheAddrs) > 0 {
		cache, err = dbredis.NewStore(dbredis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("chunkdex: create embedding cache: %w", err)
		}
		embedder = embcache.New(embedder, cache, nil, cfg.logger)
	}

	collRepo := collectionrepo.New(conn, cfg.logger)
	docRepo := documentrepo.New(conn)
	searchRepo := searchrepo.New(conn, cfg.logger)

	return &Store{
		conn:         conn,
		cache:        cache,
		collSvc:      collectionuc.New(collRepo),
		ingestSvc:    ingestuc.New(docRepo, collRepo, embedder, cfg.logger),
		searchSvc:    searchuc.New(searchRepo, collRepo, embedder),
		maxBatchSize: cfg.maxBatchSize,
	}, nil
}

// Close releases the database and cache connections.
func (s *Store) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("chunkdex: close database: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// InitializeCollection ensures a collection exists with the given embedding
// dimensions. Idempotent: repeating the call with the same dimensions is a
// no-op, a different dimension count returns ErrDimensionMismatch.
func (s *Store) InitializeCollection(ctx context.Context, name string, dimensions int) error {
	return s.collSvc.Initialize(ctx, name, dimensions)
}

// DropCollection removes a collection and all its documents.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	return s.collSvc.Drop(ctx, name)
}

// AddDocuments embeds and stores documents, returning their ids in input
// order. The whole batch is embedded in one provider call and stored in one
// transaction: either every document lands or none do. WithIngestEmbedder
// substitutes the embedder for this call only.
func (s *Store) AddDocuments(
	ctx context.Context, collection string, docs []Document, opts ...IngestOption,
) ([]int64, error) {
	cfg := &ingestConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if len(docs) > s.maxBatchSize {
		return nil, fmt.Errorf("chunkdex: batch of %d exceeds maximum %d", len(docs), s.maxBatchSize)
	}

	internal := make([]domain.Document, len(docs))
	for i, doc := range docs {
		meta, err := metadata.FromAnyMap(doc.Metadata)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w: %w", i, domain.ErrInvalidMetadata, err)
		}
		internal[i] = domain.Document{Content: doc.Content, Metadata: meta}
	}

	return s.ingestSvc.AddDocumentsWith(ctx, collection, internal, cfg.embedder)
}

// SimilaritySearch embeds the query and returns up to limit documents
// ordered by ascending distance (closest first). WithSearchEmbedder
// substitutes the embedder for this call only.
func (s *Store) SimilaritySearch(
	ctx context.Context, collection, query string, limit int, opts ...SearchOption,
) ([]Document, error) {
	cfg := &searchConfig{}
	for _, o := range opts {
		o(cfg)
	}

	expr, err := cfg.filter.expression()
	if err != nil {
		return nil, err
	}

	results, err := s.searchSvc.SimilarWith(ctx, collection, query, limit, expr, cfg.embedder)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, len(results))
	for i, res := range results {
		meta := make(map[string]any, len(res.Metadata))
		for k, v := range res.Metadata {
			meta[k] = v.Interface()
		}
		docs[i] = Document{
			ID:       res.ID,
			Content:  res.Content,
			Metadata: meta,
			Score:    res.Score,
		}
	}
	return docs, nil
}

// noopEmbedder returns an error when no embedder is configured.
type noopEmbedder struct{}

func (noopEmbedder) EmbedDocuments(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("chunkdex: embedder not configured (use WithEmbedder)")
}

func (noopEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("chunkdex: embedder not configured (use WithEmbedder)")
}
