package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrDimensionMismatch signals a vector whose length disagrees with the
	// collection's configured dimensions.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingCountMismatch signals an embedder that returned a vector
	// count different from the input text count.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
	// ErrEmbeddingProvider signals an embedding collaborator failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrInvalidFilter signals a malformed filter expression.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrInvalidMetadata signals metadata that cannot be represented as JSON.
	ErrInvalidMetadata = errors.New("invalid metadata")
	// ErrInvalidCollectionName signals a collection name that is not a safe identifier.
	ErrInvalidCollectionName = errors.New("invalid collection name")
	// ErrInvalidLimit signals a non-positive search limit.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrEmptyContent signals a document with empty content.
	ErrEmptyContent = errors.New("empty document content")
)

// DimensionError wraps ErrDimensionMismatch with the observed and expected lengths.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: got %d, want %d", ErrDimensionMismatch.Error(), e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// NewDimensionError creates a dimension mismatch error.
func NewDimensionError(got, want int) error {
	return &DimensionError{Got: got, Want: want}
}
