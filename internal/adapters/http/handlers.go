package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"keystone/internal/application/orchestrators"
	"keystone/internal/application/projections"
	"keystone/internal/domain/intake"
	slotDomain "keystone/internal/domain/slot"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// registerRoutes wires all routes onto the mux.
func registerRoutes(mux *http.ServeMux, contentDir string) {
	// Public API consumed by the enquiry wizard
	mux.HandleFunc("/api/slots", handleSlots)
	mux.HandleFunc("/api/enquiry", handleSubmitEnquiry)
	mux.HandleFunc("/api/intake/validate", handleIntakeValidate)

	// Marketing content pages and their static assets
	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(filepath.Join(contentDir, "static")))))
	mux.HandleFunc("/", handleContentPage(contentDir))
	mux.HandleFunc("/enquiry", handleContentPage(contentDir))
	mux.HandleFunc("/courses/", handleContentPage(contentDir))

	// Admin surface
	mux.HandleFunc("/admin/login", handleAdminLogin)
	mux.HandleFunc("/admin/logout", handleAdminLogout)
	mux.HandleFunc("/admin/api/enquiries", handleAdminEnquiries)
	mux.HandleFunc("/admin/api/enquiries/", handleAdminEnquiryByID)
	mux.HandleFunc("/admin/api/outbox", handleAdminOutbox)
	mux.HandleFunc("/admin/api/outbox/", handleAdminOutbox)
}

// --- Slot listing ---

type slotJSON struct {
	ID           string `json:"id"`
	StartTime    string `json:"startTime"`
	DurationMins int    `json:"durationMins"`
}

type dateGroupJSON struct {
	Date  string     `json:"date"`
	Slots []slotJSON `json:"slots"`
}

// handleSlots handles GET /api/slots.
// Returns upcoming open consultation slots grouped by calendar date. A storage
// failure degrades to an empty list; the wizard still works without slots.
func handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	slots := projections.QueryGetAvailableSlots(r.Context(), projections.GetAvailableSlotsDeps{
		SlotStore: stores.SlotStore,
		Now:       timeNow,
	})

	groups := projections.GroupSlotsByDate(slots)
	out := make([]dateGroupJSON, 0, len(groups))
	for _, g := range groups {
		dg := dateGroupJSON{Date: g.Date, Slots: make([]slotJSON, 0, len(g.Slots))}
		for _, s := range g.Slots {
			dg.Slots = append(dg.Slots, toSlotJSON(s))
		}
		out = append(out, dg)
	}

	writeJSON(w, http.StatusOK, map[string]any{"dates": out})
}

func toSlotJSON(s slotDomain.Slot) slotJSON {
	return slotJSON{
		ID:           s.ID,
		StartTime:    s.StartTime.Format(time.RFC3339),
		DurationMins: s.DurationMins,
	}
}

// --- Enquiry submission ---

type guardianPayload struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ReferralSource string `json:"referralSource"`
}

type studentPayload struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	GradeLevel string `json:"gradeLevel"`
	School     string `json:"school"`
}

type enquiryPayload struct {
	Guardian       guardianPayload  `json:"guardian"`
	Students       []studentPayload `json:"students"`
	AcademicGoals  []string         `json:"academicGoals"`
	LearningGoals  []string         `json:"learningGoals"`
	PersonalGoals  []string         `json:"personalGoals"`
	SelectedSlotID string           `json:"selectedSlotId"`
	AgreeToPrivacy bool             `json:"agreeToPrivacy"`
}

func (p enquiryPayload) toDraft() intake.Draft {
	d := intake.Draft{
		Guardian: intake.Guardian{
			FirstName:      p.Guardian.FirstName,
			LastName:       p.Guardian.LastName,
			Email:          p.Guardian.Email,
			Phone:          p.Guardian.Phone,
			ReferralSource: p.Guardian.ReferralSource,
		},
		AcademicGoals:  p.AcademicGoals,
		LearningGoals:  p.LearningGoals,
		PersonalGoals:  p.PersonalGoals,
		SelectedSlotID: p.SelectedSlotID,
		AgreeToPrivacy: p.AgreeToPrivacy,
	}
	for _, s := range p.Students {
		d.Students = append(d.Students, intake.Student{
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			GradeLevel: s.GradeLevel,
			School:     s.School,
		})
	}
	return d
}

type submitResponse struct {
	Success      bool     `json:"success"`
	EnquiryID    string   `json:"enquiryId,omitempty"`
	LeadID       string   `json:"leadId,omitempty"`
	StudentNames []string `json:"studentNames,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// handleSubmitEnquiry handles POST /api/enquiry.
// The payload is untrusted; the orchestrator re-validates the whole draft.
// Infrastructure failures surface as a generic message, never as internals.
func handleSubmitEnquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload enquiryPayload
	if err := strictDecode(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{
			Success: false,
			Error:   "Validation failed: request body is not a valid enquiry",
		})
		return
	}

	result, err := orchestrators.ExecuteSubmitEnquiry(r.Context(), orchestrators.SubmitEnquiryInput{
		Draft: payload.toDraft(),
	}, orchestrators.SubmitEnquiryDeps{
		EnquiryStore: stores.EnquiryStore,
		LeadStore:    stores.LeadStore,
		SlotStore:    stores.SlotStore,
		BookingStore: stores.BookingStore,
		OutboxStore:  stores.OutboxStore,
		EmailSender:  emailSender,
		NotifyEmail:  notifyEmailAddress,
		FromAddress:  emailFromAddress,
		ReplyTo:      emailReplyTo,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		slog.Error("enquiry_submit_failed", "error", err.Error())
		writeJSON(w, http.StatusOK, submitResponse{
			Success: false,
			Error:   "Something went wrong submitting your enquiry. Please try again.",
		})
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusOK, submitResponse{Success: false, Error: result.Error})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:      true,
		EnquiryID:    result.EnquiryID,
		LeadID:       result.LeadID,
		StudentNames: result.StudentNames,
	})
}

// --- Per-step validation ---

type validatePayload struct {
	Step           int              `json:"step"`
	Guardian       guardianPayload  `json:"guardian"`
	Students       []studentPayload `json:"students"`
	AcademicGoals  []string         `json:"academicGoals"`
	LearningGoals  []string         `json:"learningGoals"`
	PersonalGoals  []string         `json:"personalGoals"`
	SelectedSlotID string           `json:"selectedSlotId"`
	AgreeToPrivacy bool             `json:"agreeToPrivacy"`
}

// handleIntakeValidate handles POST /api/intake/validate.
// The wizard front-end calls this before advancing a step; the rules are the
// same ones the submission re-runs in full.
func handleIntakeValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload validatePayload
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Step < intake.StepGuardian || payload.Step > intake.StepSchedule {
		http.Error(w, "step must be between 1 and 4", http.StatusBadRequest)
		return
	}

	draft := enquiryPayload{
		Guardian:       payload.Guardian,
		Students:       payload.Students,
		AcademicGoals:  payload.AcademicGoals,
		LearningGoals:  payload.LearningGoals,
		PersonalGoals:  payload.PersonalGoals,
		SelectedSlotID: payload.SelectedSlotID,
		AgreeToPrivacy: payload.AgreeToPrivacy,
	}.toDraft()

	errs := draft.ValidateStep(payload.Step)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}
