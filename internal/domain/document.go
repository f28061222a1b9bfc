package domain

import "github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"

// Document is a text chunk with structured metadata.
// Score and ID are populated only on retrieval and ignored on ingestion.
type Document struct {
	ID       int64
	Content  string
	Metadata metadata.Map
	Score    float64
}

// Collection is a named set of documents with a fixed embedding dimension.
// Dimensions is immutable for the lifetime of the collection.
type Collection struct {
	Name       string
	Dimensions int
}
