package lead

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"keystone/internal/adapters/storage"
	domain "keystone/internal/domain/lead"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLiteStore(db)
}

func testLead(id string, createdAt time.Time) domain.Lead {
	return domain.Lead{
		ID:           id,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "0400 000 000",
		StudentNames: "Sam Doe",
		GradeLevels:  "Year 7",
		Subjects:     "[]",
		Notes:        "Academic goals: Improve maths results",
		Status:       domain.StatusNew,
		Source:       domain.SourceWebsiteEnquiry,
		CreatedAt:    createdAt,
	}
}

func TestSQLiteStore_SaveAndGetByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	l := testLead("lead-1", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByID(ctx, "lead-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != l.Name || got.Email != l.Email || got.Status != l.Status || got.Subjects != "[]" {
		t.Errorf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(l.CreatedAt) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
}

func TestSQLiteStore_GetByEmail_PicksMostRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	older := testLead("lead-1", base)
	newer := testLead("lead-2", base.Add(time.Hour))
	if err := store.Save(ctx, older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := store.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	got, err := store.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "lead-2" {
		t.Errorf("ID = %q, want the most recent lead", got.ID)
	}
}

func TestSQLiteStore_GetByEmail_NotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.GetByEmail(context.Background(), "nobody@example.com"); err == nil {
		t.Fatal("expected an error for an unknown email")
	}
}

func TestSQLiteStore_SaveUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	l := testLead("lead-1", time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	l.Status = domain.StatusContacted
	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.GetByID(ctx, "lead-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusContacted {
		t.Errorf("status = %q after upsert", got.Status)
	}
}
