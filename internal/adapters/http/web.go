package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"keystone/internal/adapters/email"
	"keystone/internal/adapters/http/middleware"
	accountStore "keystone/internal/adapters/storage/account"
	bookingStore "keystone/internal/adapters/storage/booking"
	enquiryStore "keystone/internal/adapters/storage/enquiry"
	leadStore "keystone/internal/adapters/storage/lead"
	outboxStore "keystone/internal/adapters/storage/outbox"
	slotStore "keystone/internal/adapters/storage/slot"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore accountStore.Store
	EnquiryStore enquiryStore.Store
	LeadStore    leadStore.Store
	SlotStore    slotStore.Store
	BookingStore bookingStore.Store
	OutboxStore  outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from KEYSTONE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("KEYSTONE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("KEYSTONE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("KEYSTONE_ENV") == "production" {
		log.Fatal("KEYSTONE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set KEYSTONE_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string
var notifyEmailAddress string

// SetEmailSender sets the global email sender and notification addresses.
func SetEmailSender(sender email.Sender, from, replyTo, notifyEmail string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
	notifyEmailAddress = notifyEmail
}

// NewMux wires HTTP handlers for the app.
func NewMux(contentDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("KEYSTONE_ENV") == "production"

	mux := http.NewServeMux()
	registerRoutes(mux, contentDir)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
