package booking

import (
	"context"

	domain "keystone/internal/domain/booking"
)

// Store persists Booking state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Save(ctx context.Context, value domain.Booking) error
	ListByLeadID(ctx context.Context, leadID string) ([]domain.Booking, error)
}
