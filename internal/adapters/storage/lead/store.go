package lead

import (
	"context"

	domain "keystone/internal/domain/lead"
)

// Store persists Lead state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Lead, error)
	// GetByEmail returns the most recent lead for an email address.
	GetByEmail(ctx context.Context, email string) (domain.Lead, error)
	Save(ctx context.Context, value domain.Lead) error
	List(ctx context.Context, limit, offset int) ([]domain.Lead, error)
}
