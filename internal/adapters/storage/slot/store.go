package slot

import (
	"context"
	"time"

	domain "keystone/internal/domain/slot"
)

// Store persists Slot state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Slot, error)
	Save(ctx context.Context, value domain.Slot) error
	// ListAvailable returns up to limit enabled, unbooked slots starting after
	// the given time, ordered by start time ascending.
	ListAvailable(ctx context.Context, after time.Time, limit int) ([]domain.Slot, error)
	Count(ctx context.Context) (int, error)
}
