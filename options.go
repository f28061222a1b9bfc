package chunkdex

import "go.uber.org/zap"

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	embedder Embedder

	cacheAddrs    []string
	cachePassword string

	maxBatchSize int

	logger *zap.Logger
}

// WithEmbedder sets the embedding provider used for ingestion and search.
// Required for AddDocuments and SimilaritySearch.
func WithEmbedder(e Embedder) Option {
	return func(c *storeConfig) {
		c.embedder = e
	}
}

// WithEmbeddingCache caches embeddings in Redis so repeated texts skip the
// provider.
func WithEmbeddingCache(addr, password string) Option {
	return func(c *storeConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	}
}

// WithMaxBatchSize caps the number of documents per AddDocuments call.
func WithMaxBatchSize(n int) Option {
	return func(c *storeConfig) {
		c.maxBatchSize = n
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *storeConfig) {
		c.logger = l
	}
}

// SearchOption configures a single SimilaritySearch call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	filter   *Filter
	embedder Embedder
}

// WithFilter restricts search candidates to documents matching the metadata
// predicate.
func WithFilter(f *Filter) SearchOption {
	return func(c *searchConfig) {
		c.filter = f
	}
}

// WithSearchEmbedder vectorizes this query with the given embedder instead of
// the store's configured one. The store embedder (and its cache) is bypassed
// entirely for the call.
func WithSearchEmbedder(e Embedder) SearchOption {
	return func(c *searchConfig) {
		c.embedder = e
	}
}

// IngestOption configures a single AddDocuments call.
type IngestOption func(*ingestConfig)

type ingestConfig struct {
	embedder Embedder
}

// WithIngestEmbedder vectorizes this batch with the given embedder instead of
// the store's configured one. Mixing embedders within one collection is the
// caller's responsibility; the dimension check still applies.
func WithIngestEmbedder(e Embedder) IngestOption {
	return func(c *ingestConfig) {
		c.embedder = e
	}
}
