package slot

import (
	"errors"
	"time"
)

// DefaultDurationMins is the standard consultation length.
const DefaultDurationMins = 45

// Domain errors
var (
	ErrZeroStartTime = errors.New("slot start time cannot be zero")
	ErrBadDuration   = errors.New("slot duration must be positive")
)

// Slot is a bookable consultation time window. The listing projection only
// reads slots; the submission transaction is the only writer, and only to the
// single slot chosen. There is no lock around the read-then-write: two
// concurrent submissions can both book the same slot, which is an accepted,
// manually resolved over-booking.
type Slot struct {
	ID              string
	StartTime       time.Time
	DurationMins    int
	IsBooked        bool
	IsEnabled       bool
	CurrentBookings int
}

// Validate checks if the Slot has valid data.
// PRE: Slot struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Slot) Validate() error {
	if s.StartTime.IsZero() {
		return ErrZeroStartTime
	}
	if s.DurationMins <= 0 {
		return ErrBadDuration
	}
	return nil
}

// IsAvailable returns true if the slot can still be offered to a guardian.
// INVARIANT: Slot fields are not mutated
func (s *Slot) IsAvailable(now time.Time) bool {
	return s.IsEnabled && !s.IsBooked && s.StartTime.After(now)
}

// Book marks the slot consumed and increments its booking counter. It never
// errors on an already-booked slot: over-booking is resolved by a human.
// POST: IsBooked is true, CurrentBookings incremented by exactly 1
func (s *Slot) Book() {
	s.IsBooked = true
	s.CurrentBookings++
}
