package lead

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"keystone/internal/adapters/storage"
	domain "keystone/internal/domain/lead"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new lead store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const leadColumns = "id, name, email, phone, student_names, grade_levels, subjects, notes, status, source, created_at"

// GetByID retrieves a Lead by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+leadColumns+" FROM lead WHERE id = ?", id)
	entity, err := scanLead(row)
	if err == sql.ErrNoRows {
		return domain.Lead{}, fmt.Errorf("lead not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves the most recent Lead for an email address.
// PRE: email is non-empty
// POST: Returns the newest matching lead or an error if none exist
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+leadColumns+" FROM lead WHERE email = ? ORDER BY created_at DESC LIMIT 1", email)
	entity, err := scanLead(row)
	if err == sql.ErrNoRows {
		return domain.Lead{}, fmt.Errorf("lead not found: %w", err)
	}
	return entity, err
}

// Save persists a Lead to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Lead) error {
	query := `INSERT INTO lead (` + leadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			email=excluded.email,
			phone=excluded.phone,
			student_names=excluded.student_names,
			grade_levels=excluded.grade_levels,
			subjects=excluded.subjects,
			notes=excluded.notes,
			status=excluded.status,
			source=excluded.source`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.Email,
		entity.Phone,
		entity.StudentNames,
		entity.GradeLevels,
		entity.Subjects,
		entity.Notes,
		entity.Status,
		entity.Source,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// List retrieves leads newest first.
// PRE: limit > 0
// POST: Returns up to limit leads
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]domain.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+leadColumns+" FROM lead ORDER BY created_at DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Lead
	for rows.Next() {
		entity, err := scanLead(rows)
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

func scanLead(row rowScanner) (domain.Lead, error) {
	var entity domain.Lead
	var createdAt string
	err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.Phone,
		&entity.StudentNames,
		&entity.GradeLevels,
		&entity.Subjects,
		&entity.Notes,
		&entity.Status,
		&entity.Source,
		&createdAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	if entity.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return domain.Lead{}, fmt.Errorf("parse created_at: %w", err)
	}
	return entity, nil
}
