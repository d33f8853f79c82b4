package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	emailAdapter "keystone/internal/adapters/email"
	bookingDomain "keystone/internal/domain/booking"
	enquiryDomain "keystone/internal/domain/enquiry"
	"keystone/internal/domain/intake"
	leadDomain "keystone/internal/domain/lead"
	outboxDomain "keystone/internal/domain/outbox"
	slotDomain "keystone/internal/domain/slot"
)

// EnquiryStore defines the interface for enquiry persistence.
type EnquiryStore interface {
	GetByID(ctx context.Context, id string) (enquiryDomain.Enquiry, error)
	Save(ctx context.Context, e enquiryDomain.Enquiry) error
	UpdateStatus(ctx context.Context, id string, status string) error
}

// LeadStore defines the interface for legacy lead persistence.
type LeadStore interface {
	GetByID(ctx context.Context, id string) (leadDomain.Lead, error)
	Save(ctx context.Context, l leadDomain.Lead) error
}

// SlotStore defines the interface for consultation slot persistence.
type SlotStore interface {
	GetByID(ctx context.Context, id string) (slotDomain.Slot, error)
	Save(ctx context.Context, s slotDomain.Slot) error
	Count(ctx context.Context) (int, error)
}

// BookingStore defines the interface for booking persistence.
type BookingStore interface {
	Save(ctx context.Context, b bookingDomain.Booking) error
}

// OutboxEnqueuer defines the outbox interface needed to park failed sends.
type OutboxEnqueuer interface {
	Save(ctx context.Context, e outboxDomain.Entry) error
}

// SubmitEnquiryInput carries the completed intake draft.
type SubmitEnquiryInput struct {
	Draft intake.Draft
}

// SubmitEnquiryDeps holds dependencies for SubmitEnquiry.
type SubmitEnquiryDeps struct {
	EnquiryStore EnquiryStore
	LeadStore    LeadStore
	SlotStore    SlotStore
	BookingStore BookingStore
	OutboxStore  OutboxEnqueuer
	EmailSender  emailAdapter.Sender
	NotifyEmail  string // business inbox that receives the notification
	FromAddress  string
	ReplyTo      string
	GenerateID   func() string
	Now          func() time.Time
}

// SubmitEnquiryResult is what the submission endpoint returns to the wizard.
type SubmitEnquiryResult struct {
	Success      bool
	EnquiryID    string
	LeadID       string
	StudentNames []string
	Error        string
}

// ExecuteSubmitEnquiry runs the full submission transaction: re-validate the
// draft, resolve the selected slot, persist the enquiry with its students,
// create the legacy lead, book the slot if one was chosen, and notify the
// business by email.
// A validation failure returns Success=false with a structured message and a
// nil error; an infrastructure failure returns a non-nil error. An email
// dispatch failure after the records are persisted does neither: the send is
// parked in the outbox and the submission still succeeds.
// PRE: Draft came from the wizard or an equivalent client payload
// POST: On success the enquiry, lead, and (when a slot resolved) booking exist
func ExecuteSubmitEnquiry(ctx context.Context, input SubmitEnquiryInput, deps SubmitEnquiryDeps) (SubmitEnquiryResult, error) {
	// Never trust the client: the whole draft is re-validated server-side.
	if errs := input.Draft.Validate(); len(errs) > 0 {
		msg := "Validation failed: " + joinValidationErrors(errs)
		slog.Info("enquiry_event", "event", "enquiry_rejected", "error_count", len(errs))
		return SubmitEnquiryResult{Success: false, Error: msg}, nil
	}

	now := deps.Now()

	// Resolve the selected slot. A lookup miss is not an error: the enquiry
	// falls back to "contact me" with the submission time as ScheduledAt.
	var resolvedSlot slotDomain.Slot
	slotResolved := false
	if input.Draft.SelectedSlotID != "" {
		s, err := deps.SlotStore.GetByID(ctx, input.Draft.SelectedSlotID)
		if err != nil {
			slog.Warn("enquiry_slot_lookup_failed", "slot_id", input.Draft.SelectedSlotID, "error", err)
		} else {
			resolvedSlot = s
			slotResolved = true
		}
	}

	e := buildEnquiry(input.Draft, deps.GenerateID, now)
	if slotResolved {
		e.SlotID = resolvedSlot.ID
		e.ScheduledAt = resolvedSlot.StartTime
		e.Status = enquiryDomain.StatusConsultationScheduled
	}

	if err := e.Validate(); err != nil {
		return SubmitEnquiryResult{Success: false, Error: "Validation failed: " + err.Error()}, nil
	}

	// Enquiry and student rows are saved as one unit by the store.
	if err := deps.EnquiryStore.Save(ctx, e); err != nil {
		return SubmitEnquiryResult{}, fmt.Errorf("save enquiry: %w", err)
	}

	l := leadDomain.FromEnquiry(e, deps.GenerateID(), now)
	if err := deps.LeadStore.Save(ctx, l); err != nil {
		return SubmitEnquiryResult{}, fmt.Errorf("save lead: %w", err)
	}

	if slotResolved {
		b := bookingDomain.Booking{
			ID:          deps.GenerateID(),
			LeadID:      l.ID,
			SlotID:      resolvedSlot.ID,
			ScheduledAt: resolvedSlot.StartTime,
			Status:      bookingDomain.StatusScheduled,
			CreatedAt:   now,
		}
		if err := deps.BookingStore.Save(ctx, b); err != nil {
			return SubmitEnquiryResult{}, fmt.Errorf("save booking: %w", err)
		}

		resolvedSlot.Book()
		if err := deps.SlotStore.Save(ctx, resolvedSlot); err != nil {
			return SubmitEnquiryResult{}, fmt.Errorf("mark slot booked: %w", err)
		}
	}

	sendNotification(ctx, e, deps)

	slog.Info("enquiry_event", "event", "enquiry_submitted",
		"enquiry_id", e.ID, "lead_id", l.ID, "status", e.Status, "student_count", len(e.Students))

	return SubmitEnquiryResult{
		Success:      true,
		EnquiryID:    e.ID,
		LeadID:       l.ID,
		StudentNames: e.StudentFirstNames(),
	}, nil
}

// buildEnquiry maps a validated draft onto the enquiry record. The caller
// overrides slot fields when a real slot resolved.
func buildEnquiry(d intake.Draft, generateID func() string, now time.Time) enquiryDomain.Enquiry {
	e := enquiryDomain.Enquiry{
		ID:                generateID(),
		GuardianFirstName: d.Guardian.FirstName,
		GuardianLastName:  d.Guardian.LastName,
		GuardianEmail:     d.Guardian.Email,
		GuardianPhone:     d.Guardian.Phone,
		ReferralSource:    d.Guardian.ReferralSource,
		AcademicGoals:     d.AcademicGoals,
		LearningGoals:     d.LearningGoals,
		PersonalGoals:     d.PersonalGoals,
		ScheduledAt:       now,
		Status:            enquiryDomain.StatusConsultationRequested,
		Stage:             enquiryDomain.StageNewEnquiry,
		CreatedAt:         now,
	}
	for _, s := range d.Students {
		e.Students = append(e.Students, enquiryDomain.Student{
			ID:         generateID(),
			EnquiryID:  e.ID,
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			GradeLevel: s.GradeLevel,
			School:     s.School,
		})
	}
	return e
}

// sendNotification sends the internal notification email. On failure the send
// request is parked in the outbox for background retry; the submission has
// already been persisted and is not rolled back.
func sendNotification(ctx context.Context, e enquiryDomain.Enquiry, deps SubmitEnquiryDeps) {
	if deps.EmailSender == nil || deps.NotifyEmail == "" {
		return
	}

	req := emailAdapter.SendRequest{
		To:      []string{deps.NotifyEmail},
		From:    deps.FromAddress,
		Subject: "New enquiry from " + e.GuardianName(),
		HTML:    notificationHTML(e),
		ReplyTo: deps.ReplyTo,
	}

	_, sendErr := deps.EmailSender.Send(ctx, req)
	if sendErr == nil {
		slog.Info("enquiry_event", "event", "enquiry_notification_sent", "enquiry_id", e.ID)
		return
	}
	slog.Warn("enquiry_notification_failed", "enquiry_id", e.ID, "error", sendErr)

	payload, err := json.Marshal(req)
	if err != nil {
		slog.Error("enquiry_notification_payload_marshal_failed", "enquiry_id", e.ID, "error", err)
		return
	}

	entry := outboxDomain.Entry{
		ID:          deps.GenerateID(),
		ActionType:  outboxDomain.ActionTypeEmail,
		Payload:     string(payload),
		Status:      outboxDomain.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   deps.Now(),
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		slog.Error("enquiry_notification_outbox_failed", "enquiry_id", e.ID, "error", err)
		return
	}
	slog.Info("enquiry_event", "event", "enquiry_notification_queued", "enquiry_id", e.ID, "outbox_id", entry.ID)
}

// notificationHTML renders the notification email body.
func notificationHTML(e enquiryDomain.Enquiry) string {
	var b strings.Builder
	b.WriteString("<h2>New consultation enquiry</h2>")
	b.WriteString("<p><strong>Guardian:</strong> " + e.GuardianName() + "<br>")
	b.WriteString("<strong>Email:</strong> " + e.GuardianEmail + "<br>")
	b.WriteString("<strong>Phone:</strong> " + e.GuardianPhone + "</p>")

	b.WriteString("<p><strong>Students:</strong></p><ul>")
	for _, s := range e.Students {
		b.WriteString("<li>" + s.FirstName + " " + s.LastName + " (" + s.GradeLevel)
		if s.School != "" {
			b.WriteString(", " + s.School)
		}
		b.WriteString(")</li>")
	}
	b.WriteString("</ul>")

	b.WriteString("<p>" + strings.ReplaceAll(e.GoalSummary(), "\n", "<br>") + "</p>")

	if e.HasSlot() {
		b.WriteString("<p><strong>Consultation booked:</strong> " + e.ScheduledAt.Format("Mon 2 Jan 2006, 3:04 PM") + "</p>")
	} else {
		b.WriteString("<p><strong>No slot chosen</strong> — the guardian asked to be contacted.</p>")
	}

	if e.ReferralSource != "" {
		b.WriteString("<p><strong>Referral source:</strong> " + e.ReferralSource + "</p>")
	}
	return b.String()
}

// joinValidationErrors flattens the field-to-message map into one stable,
// human-readable string. Keys are sorted so the message is deterministic.
func joinValidationErrors(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, errs[k])
	}
	return strings.Join(msgs, "; ")
}
