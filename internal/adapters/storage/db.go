package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is a single numbered schema change. Migrations run in order inside
// a transaction each; the version table records the highest applied number.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered chain of schema changes. Append only — never edit
// an applied migration.
var migrations = []migration{
	{version: 1, name: "baseline", apply: migrateBaseline},
}

// LatestSchemaVersion returns the highest migration version.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the current schema version; 0 means no migrations have run.
// PRE: db is a valid connection
// POST: Returns the recorded version, or 0 when the version table is absent
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies all pending migrations.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion; idempotent when already current
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
		slog.Info("db_event", "event", "migration_applied", "version", m.version, "name", m.name, "db", dbPath)
	}

	return nil
}

// migrateBaseline creates the full schema for a fresh database.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS enquiry (
		id TEXT PRIMARY KEY,
		guardian_first_name TEXT NOT NULL,
		guardian_last_name TEXT NOT NULL,
		guardian_email TEXT NOT NULL,
		guardian_phone TEXT NOT NULL,
		referral_source TEXT NOT NULL DEFAULT '',
		academic_goals TEXT NOT NULL DEFAULT '[]',
		learning_goals TEXT NOT NULL DEFAULT '[]',
		personal_goals TEXT NOT NULL DEFAULT '[]',
		slot_id TEXT,
		scheduled_at TEXT NOT NULL,
		status TEXT NOT NULL,
		stage TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enquiry_student (
		id TEXT PRIMARY KEY,
		enquiry_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		grade_level TEXT NOT NULL,
		school TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (enquiry_id) REFERENCES enquiry(id)
	);

	CREATE TABLE IF NOT EXISTS lead (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		student_names TEXT NOT NULL DEFAULT '',
		grade_levels TEXT NOT NULL DEFAULT '',
		subjects TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS booking (
		id TEXT PRIMARY KEY,
		lead_id TEXT NOT NULL,
		slot_id TEXT,
		scheduled_at TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (lead_id) REFERENCES lead(id)
	);

	CREATE TABLE IF NOT EXISTS slot (
		id TEXT PRIMARY KEY,
		start_time TEXT NOT NULL,
		duration_mins INTEGER NOT NULL DEFAULT 45,
		is_booked INTEGER NOT NULL DEFAULT 0,
		is_enabled INTEGER NOT NULL DEFAULT 1,
		current_bookings INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_enquiry_status ON enquiry(status);
	CREATE INDEX IF NOT EXISTS idx_enquiry_student_enquiry ON enquiry_student(enquiry_id);
	CREATE INDEX IF NOT EXISTS idx_slot_start ON slot(start_time);
	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status);
	`
	_, err := tx.Exec(schema)
	return err
}
