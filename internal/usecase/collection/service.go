// Package collection implements collection lifecycle operations.
package collection

import (
	"context"
	"fmt"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
)

// Service handles collection initialization and lookup.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Initialize ensures the collection's storage schema exists with the given
// dimensions. Repeated calls with the same dimensions succeed; a different
// dimension count is rejected without schema changes.
func (s *Service) Initialize(ctx context.Context, name string, dimensions int) error {
	if err := s.repo.Ensure(ctx, name, dimensions); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	return nil
}

// Get returns a collection by name.
func (s *Service) Get(ctx context.Context, name string) (domain.Collection, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// Drop removes a collection and all its documents.
func (s *Service) Drop(ctx context.Context, name string) error {
	if err := s.repo.Drop(ctx, name); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}
