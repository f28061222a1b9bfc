package collection

import (
	"context"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
)

// Repository defines the storage contract for collection schemas.
type Repository interface {
	Ensure(ctx context.Context, name string, dimensions int) error
	Get(ctx context.Context, name string) (domain.Collection, error)
	Drop(ctx context.Context, name string) error
}
