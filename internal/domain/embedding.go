package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// EmbedDocuments must return exactly one vector per input text, in input
// order; callers treat any other shape as a contract violation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
