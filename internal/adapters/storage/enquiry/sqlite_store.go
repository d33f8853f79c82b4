package enquiry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"keystone/internal/adapters/storage"
	domain "keystone/internal/domain/enquiry"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new enquiry store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const enquiryColumns = "id, guardian_first_name, guardian_last_name, guardian_email, guardian_phone, referral_source, academic_goals, learning_goals, personal_goals, slot_id, scheduled_at, status, stage, created_at"

// Save persists an Enquiry and its student rows in a single transaction.
// PRE: entity has been validated
// POST: Enquiry and all students are persisted together, or nothing is
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Enquiry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	academic, err := json.Marshal(goalsOrEmpty(entity.AcademicGoals))
	if err != nil {
		return fmt.Errorf("marshal academic goals: %w", err)
	}
	learning, err := json.Marshal(goalsOrEmpty(entity.LearningGoals))
	if err != nil {
		return fmt.Errorf("marshal learning goals: %w", err)
	}
	personal, err := json.Marshal(goalsOrEmpty(entity.PersonalGoals))
	if err != nil {
		return fmt.Errorf("marshal personal goals: %w", err)
	}

	var slotID interface{}
	if entity.SlotID != "" {
		slotID = entity.SlotID
	}

	query := `INSERT INTO enquiry (` + enquiryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			guardian_first_name=excluded.guardian_first_name,
			guardian_last_name=excluded.guardian_last_name,
			guardian_email=excluded.guardian_email,
			guardian_phone=excluded.guardian_phone,
			referral_source=excluded.referral_source,
			academic_goals=excluded.academic_goals,
			learning_goals=excluded.learning_goals,
			personal_goals=excluded.personal_goals,
			slot_id=excluded.slot_id,
			scheduled_at=excluded.scheduled_at,
			status=excluded.status,
			stage=excluded.stage`

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.GuardianFirstName,
		entity.GuardianLastName,
		entity.GuardianEmail,
		entity.GuardianPhone,
		entity.ReferralSource,
		string(academic),
		string(learning),
		string(personal),
		slotID,
		entity.ScheduledAt.UTC().Format(time.RFC3339),
		entity.Status,
		entity.Stage,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	// Replace student rows wholesale; they are owned by the enquiry.
	if _, err := tx.ExecContext(ctx, "DELETE FROM enquiry_student WHERE enquiry_id = ?", entity.ID); err != nil {
		return err
	}
	for i, st := range entity.Students {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO enquiry_student (id, enquiry_id, first_name, last_name, grade_level, school, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
			st.ID, entity.ID, st.FirstName, st.LastName, st.GradeLevel, st.School, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves an Enquiry with its students.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enquiry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+enquiryColumns+" FROM enquiry WHERE id = ?", id)
	entity, err := scanEnquiry(row)
	if err == sql.ErrNoRows {
		return domain.Enquiry{}, fmt.Errorf("enquiry not found: %w", err)
	}
	if err != nil {
		return domain.Enquiry{}, err
	}

	students, err := s.loadStudents(ctx, id)
	if err != nil {
		return domain.Enquiry{}, err
	}
	entity.Students = students
	return entity, nil
}

// UpdateStatus changes only the status column.
// PRE: id is non-empty, status is a valid domain status
// POST: Status is updated
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE enquiry SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("enquiry not found: %s", id)
	}
	return nil
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Stage != "" {
		where += " AND stage = ?"
		args = append(args, filter.Stage)
	}
	if filter.Search != "" {
		where += " AND (guardian_first_name LIKE ? OR guardian_last_name LIKE ? OR guardian_email LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}
	return where, args
}

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"created":   "created_at",
		"scheduled": "scheduled_at",
		"status":    "status",
		"name":      "guardian_last_name",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY created_at DESC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of enquiries matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enquiry"+where, args...).Scan(&count)
	return count, err
}

// List retrieves enquiries matching the filter, students included.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Enquiry, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + enquiryColumns + " FROM enquiry" + where + sortClause(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enquiry
	for rows.Next() {
		entity, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		students, err := s.loadStudents(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Students = students
	}
	return results, nil
}

func (s *SQLiteStore) loadStudents(ctx context.Context, enquiryID string) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, enquiry_id, first_name, last_name, grade_level, school FROM enquiry_student WHERE enquiry_id = ? ORDER BY position",
		enquiryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		var st domain.Student
		if err := rows.Scan(&st.ID, &st.EnquiryID, &st.FirstName, &st.LastName, &st.GradeLevel, &st.School); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnquiry(row rowScanner) (domain.Enquiry, error) {
	var entity domain.Enquiry
	var academic, learning, personal, scheduledAt, createdAt string
	var slotID sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.GuardianFirstName,
		&entity.GuardianLastName,
		&entity.GuardianEmail,
		&entity.GuardianPhone,
		&entity.ReferralSource,
		&academic,
		&learning,
		&personal,
		&slotID,
		&scheduledAt,
		&entity.Status,
		&entity.Stage,
		&createdAt,
	)
	if err != nil {
		return domain.Enquiry{}, err
	}
	if slotID.Valid {
		entity.SlotID = slotID.String
	}
	if err := json.Unmarshal([]byte(academic), &entity.AcademicGoals); err != nil {
		return domain.Enquiry{}, fmt.Errorf("unmarshal academic goals: %w", err)
	}
	if err := json.Unmarshal([]byte(learning), &entity.LearningGoals); err != nil {
		return domain.Enquiry{}, fmt.Errorf("unmarshal learning goals: %w", err)
	}
	if err := json.Unmarshal([]byte(personal), &entity.PersonalGoals); err != nil {
		return domain.Enquiry{}, fmt.Errorf("unmarshal personal goals: %w", err)
	}
	if entity.ScheduledAt, err = time.Parse(time.RFC3339, scheduledAt); err != nil {
		return domain.Enquiry{}, fmt.Errorf("parse scheduled_at: %w", err)
	}
	if entity.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return domain.Enquiry{}, fmt.Errorf("parse created_at: %w", err)
	}
	return entity, nil
}

// goalsOrEmpty keeps nil slices serializing as [] rather than null.
func goalsOrEmpty(goals []string) []string {
	if goals == nil {
		return []string{}
	}
	return goals
}
