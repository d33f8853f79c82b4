package projections

import (
	"context"
	"log/slog"
	"time"

	domain "keystone/internal/domain/slot"
)

// MaxSlotsShown caps how many upcoming slots the booking step offers.
const MaxSlotsShown = 20

// SlotStore defines the slot store interface for the availability projection.
type SlotStore interface {
	ListAvailable(ctx context.Context, after time.Time, limit int) ([]domain.Slot, error)
}

// GetAvailableSlotsDeps holds dependencies for GetAvailableSlots.
type GetAvailableSlotsDeps struct {
	SlotStore SlotStore
	Now       func() time.Time
}

// DateGroup is one calendar date with its slots, in display order.
type DateGroup struct {
	Date  string // YYYY-MM-DD
	Slots []domain.Slot
}

// QueryGetAvailableSlots retrieves upcoming open consultation slots. A store
// failure degrades to an empty list rather than an error: the wizard's
// schedule step works without slots, the guardian just submits "contact me".
// POST: Returns up to MaxSlotsShown slots ordered by start time ascending;
// never returns an error to the caller
func QueryGetAvailableSlots(ctx context.Context, deps GetAvailableSlotsDeps) []domain.Slot {
	slots, err := deps.SlotStore.ListAvailable(ctx, deps.Now(), MaxSlotsShown)
	if err != nil {
		slog.Error("slot_list_failed", "error", err)
		return []domain.Slot{}
	}
	if slots == nil {
		return []domain.Slot{}
	}
	return slots
}

// GroupSlotsByDate buckets slots into per-calendar-date groups, preserving
// order. Input is assumed sorted by start time, so groups come out sorted too.
// INVARIANT: Every input slot appears in exactly one group
func GroupSlotsByDate(slots []domain.Slot) []DateGroup {
	var groups []DateGroup
	for _, s := range slots {
		date := s.StartTime.Format("2006-01-02")
		if len(groups) > 0 && groups[len(groups)-1].Date == date {
			last := &groups[len(groups)-1]
			last.Slots = append(last.Slots, s)
			continue
		}
		groups = append(groups, DateGroup{Date: date, Slots: []domain.Slot{s}})
	}
	return groups
}
