package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"keystone/internal/adapters/storage"
	domain "keystone/internal/domain/slot"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new slot store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const slotColumns = "id, start_time, duration_mins, is_booked, is_enabled, current_bookings"

// GetByID retrieves a Slot by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Slot, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+slotColumns+" FROM slot WHERE id = ?", id)
	entity, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return domain.Slot{}, fmt.Errorf("slot not found: %w", err)
	}
	return entity, err
}

// Save persists a Slot to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Slot) error {
	query := `INSERT INTO slot (` + slotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_time=excluded.start_time,
			duration_mins=excluded.duration_mins,
			is_booked=excluded.is_booked,
			is_enabled=excluded.is_enabled,
			current_bookings=excluded.current_bookings`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.StartTime.UTC().Format(time.RFC3339),
		entity.DurationMins,
		boolToInt(entity.IsBooked),
		boolToInt(entity.IsEnabled),
		entity.CurrentBookings,
	)
	return err
}

// ListAvailable returns upcoming bookable slots ordered by start time.
// PRE: limit > 0
// POST: Returns up to limit enabled, unbooked, future slots
func (s *SQLiteStore) ListAvailable(ctx context.Context, after time.Time, limit int) ([]domain.Slot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+slotColumns+" FROM slot WHERE is_enabled = 1 AND is_booked = 0 AND start_time > ? ORDER BY start_time ASC LIMIT ?",
		after.UTC().Format(time.RFC3339), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Slot
	for rows.Next() {
		entity, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of slots.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM slot").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (domain.Slot, error) {
	var entity domain.Slot
	var startTime string
	var booked, enabled int
	err := row.Scan(
		&entity.ID,
		&startTime,
		&entity.DurationMins,
		&booked,
		&enabled,
		&entity.CurrentBookings,
	)
	if err != nil {
		return domain.Slot{}, err
	}
	entity.IsBooked = booked != 0
	entity.IsEnabled = enabled != 0
	if entity.StartTime, err = time.Parse(time.RFC3339, startTime); err != nil {
		return domain.Slot{}, fmt.Errorf("parse start_time: %w", err)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
