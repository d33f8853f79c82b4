package orchestrators

import (
	"context"
	"log/slog"
	"time"

	slotDomain "keystone/internal/domain/slot"

	"github.com/google/uuid"
)

// Evening consultation times offered on weekdays.
var seedHours = []int{16, 17, 18}

// SeedSlotsDeps holds dependencies for SeedSlots.
type SeedSlotsDeps struct {
	SlotStore SlotStore
	Now       func() time.Time
}

// ExecuteSeedSlots creates consultation slots for weekday evenings over the
// next three weeks if the slot table is empty. Safe to run at every startup.
// POST: Slot table is non-empty; existing data is never touched
func ExecuteSeedSlots(ctx context.Context, deps SeedSlotsDeps) error {
	count, err := deps.SlotStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}

	now := deps.Now()
	created := 0
	for day := 1; day <= 21; day++ {
		date := now.AddDate(0, 0, day)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		for _, hour := range seedHours {
			start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
			s := slotDomain.Slot{
				ID:           uuid.New().String(),
				StartTime:    start,
				DurationMins: slotDomain.DefaultDurationMins,
				IsEnabled:    true,
			}
			if err := deps.SlotStore.Save(ctx, s); err != nil {
				return err
			}
			created++
		}
	}

	slog.Info("seed_event", "event", "slots_seeded", "slots", created)
	return nil
}
