package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"keystone/internal/adapters/storage"
	domain "keystone/internal/domain/booking"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new booking store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const bookingColumns = "id, lead_id, slot_id, scheduled_at, status, created_at"

// GetByID retrieves a Booking by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM booking WHERE id = ?", id)
	entity, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return domain.Booking{}, fmt.Errorf("booking not found: %w", err)
	}
	return entity, err
}

// Save persists a Booking to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Booking) error {
	query := `INSERT INTO booking (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			lead_id=excluded.lead_id,
			slot_id=excluded.slot_id,
			scheduled_at=excluded.scheduled_at,
			status=excluded.status`

	var slotID interface{}
	if entity.SlotID != "" {
		slotID = entity.SlotID
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.LeadID,
		slotID,
		entity.ScheduledAt.UTC().Format(time.RFC3339),
		entity.Status,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// ListByLeadID returns a lead's bookings ordered by scheduled time.
// PRE: leadID is non-empty
// POST: Returns matching bookings
func (s *SQLiteStore) ListByLeadID(ctx context.Context, leadID string) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM booking WHERE lead_id = ? ORDER BY scheduled_at", leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Booking
	for rows.Next() {
		entity, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var entity domain.Booking
	var scheduledAt, createdAt string
	var slotID sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.LeadID,
		&slotID,
		&scheduledAt,
		&entity.Status,
		&createdAt,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	if slotID.Valid {
		entity.SlotID = slotID.String
	}
	if entity.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAt); err != nil {
		return domain.Booking{}, fmt.Errorf("parse scheduled_at: %w", err)
	}
	if entity.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return domain.Booking{}, fmt.Errorf("parse created_at: %w", err)
	}
	return entity, nil
}
