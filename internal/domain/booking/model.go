package booking

import (
	"errors"
	"time"
)

// Status constants for the booking lifecycle.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Domain errors
var (
	ErrEmptyLeadID     = errors.New("booking must reference a lead")
	ErrZeroScheduledAt = errors.New("booking scheduled time cannot be zero")
	ErrInvalidStatus   = errors.New("invalid booking status")
)

// Booking links a legacy lead to a consultation time. Created only when the
// guardian picked an availability slot.
type Booking struct {
	ID          string
	LeadID      string
	SlotID      string
	ScheduledAt time.Time
	Status      string
	CreatedAt   time.Time
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate() error {
	if b.LeadID == "" {
		return ErrEmptyLeadID
	}
	if b.ScheduledAt.IsZero() {
		return ErrZeroScheduledAt
	}
	if b.Status != StatusScheduled && b.Status != StatusCompleted && b.Status != StatusCancelled {
		return ErrInvalidStatus
	}
	return nil
}

// IsScheduled returns true if the booking is still upcoming.
// INVARIANT: Booking fields are not mutated
func (b *Booking) IsScheduled() bool {
	return b.Status == StatusScheduled
}
