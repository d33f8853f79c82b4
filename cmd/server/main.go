package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "keystone/internal/adapters/email"
	web "keystone/internal/adapters/http"
	"keystone/internal/adapters/storage"
	accountStore "keystone/internal/adapters/storage/account"
	bookingStore "keystone/internal/adapters/storage/booking"
	enquiryStore "keystone/internal/adapters/storage/enquiry"
	leadStore "keystone/internal/adapters/storage/lead"
	outboxStorePkg "keystone/internal/adapters/storage/outbox"
	slotStore "keystone/internal/adapters/storage/slot"
	"keystone/internal/application/orchestrators"
	"keystone/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("KEYSTONE_DB", "keystone.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	slots := slotStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore: acctStore,
		EnquiryStore: enquiryStore.NewSQLiteStore(timedDB),
		LeadStore:    leadStore.NewSQLiteStore(timedDB),
		SlotStore:    slots,
		BookingStore: bookingStore.NewSQLiteStore(timedDB),
		OutboxStore:  outboxStorePkg.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("KEYSTONE_ADMIN_EMAIL", "hello@keystonetutoring.com.au")
	adminPassword := envOrDefault("KEYSTONE_ADMIN_PASSWORD", "Marble staircase")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed consultation slots if the table is empty
	slotSeedDeps := orchestrators.SeedSlotsDeps{SlotStore: slots, Now: time.Now}
	if err := orchestrators.ExecuteSeedSlots(context.Background(), slotSeedDeps); err != nil {
		log.Fatalf("failed to seed slots: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("KEYSTONE_RESEND_KEY")
	emailFrom := envOrDefault("KEYSTONE_RESEND_FROM", "Keystone Tutoring <noreply@keystonetutoring.com.au>")
	emailReply := envOrDefault("KEYSTONE_REPLY_TO", "hello@keystonetutoring.com.au")
	notifyEmail := envOrDefault("KEYSTONE_NOTIFY_EMAIL", "hello@keystonetutoring.com.au")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("KEYSTONE_ENV") == "production" {
			log.Println("WARNING: KEYSTONE_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set KEYSTONE_RESEND_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, emailFrom, emailReply, notifyEmail)

	// Start outbox background worker for retrying failed notification emails
	outboxStopCh := make(chan struct{})
	outboxProcessor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender},
	})
	orchestrators.StartBackgroundWorker(outboxProcessor, 1*time.Minute, outboxStopCh)
	defer close(outboxStopCh)

	mux := web.NewMux(envOrDefault("KEYSTONE_CONTENT_DIR", "content"), stores)

	addr := envOrDefault("KEYSTONE_ADDR", ":8080")
	log.Printf("Keystone %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("KEYSTONE_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
