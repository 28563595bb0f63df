package purchase

import (
	"context"
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for purchase persistence.
// Soft-deleted purchases are invisible to every finder.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	// FindByIDForUpdate loads the purchase holding a row lock until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, int64, error)
	Create(ctx context.Context, p *Purchase) error
	Update(ctx context.Context, p *Purchase) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
