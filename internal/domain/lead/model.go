package lead

import (
	"errors"
	"strings"
	"time"

	"keystone/internal/domain/enquiry"
)

// Status constants for the legacy lead lifecycle.
const (
	StatusNew                = "NEW"
	StatusConsultationBooked = "CONSULTATION_BOOKED"
	StatusContacted          = "CONTACTED"
	StatusConverted          = "CONVERTED"
	StatusClosed             = "CLOSED"
)

// Source and placeholder values written into every website lead.
const (
	SourceWebsiteEnquiry     = "website_enquiry"
	EmptySubjectsPlaceholder = "[]"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusNew, StatusConsultationBooked, StatusContacted, StatusConverted, StatusClosed}

// Domain errors
var (
	ErrEmptyName     = errors.New("lead name cannot be empty")
	ErrEmptyEmail    = errors.New("lead email cannot be empty")
	ErrInvalidStatus = errors.New("invalid lead status")
)

// Lead is the flattened compatibility record. Older tooling reads this shape,
// so the duplication with Enquiry is intentional and must not be refactored
// away: names collapse to a single string, students and grades join with
// commas, and the goal lists plus referral source pack into the notes field.
type Lead struct {
	ID           string
	Name         string // guardian full name
	Email        string
	Phone        string
	StudentNames string // comma-joined full names
	GradeLevels  string // comma-joined, same order as StudentNames
	Subjects     string // serialized placeholder, always "[]" for new leads
	Notes        string // freeform: goal summary + referral source
	Status       string
	Source       string
	CreatedAt    time.Time
}

// FromEnquiry flattens an enquiry into the legacy lead shape.
// PRE: e has been validated
// POST: Returns a lead with status NEW, or CONSULTATION_BOOKED when the
// enquiry resolved a slot
func FromEnquiry(e enquiry.Enquiry, id string, now time.Time) Lead {
	names := make([]string, 0, len(e.Students))
	grades := make([]string, 0, len(e.Students))
	for _, s := range e.Students {
		names = append(names, strings.TrimSpace(s.FirstName+" "+s.LastName))
		grades = append(grades, s.GradeLevel)
	}

	notes := e.GoalSummary()
	if e.ReferralSource != "" {
		notes += "\nReferral source: " + e.ReferralSource
	}

	status := StatusNew
	if e.HasSlot() {
		status = StatusConsultationBooked
	}

	return Lead{
		ID:           id,
		Name:         e.GuardianName(),
		Email:        e.GuardianEmail,
		Phone:        e.GuardianPhone,
		StudentNames: strings.Join(names, ", "),
		GradeLevels:  strings.Join(grades, ", "),
		Subjects:     EmptySubjectsPlaceholder,
		Notes:        notes,
		Status:       status,
		Source:       SourceWebsiteEnquiry,
		CreatedAt:    now,
	}
}

// Validate checks if the Lead has valid data.
// PRE: Lead struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(l.Email) == "" {
		return ErrEmptyEmail
	}
	if !isValidStatus(l.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus moves the lead to a new lifecycle status.
// PRE: status is one of ValidStatuses
// POST: Status is updated
func (l *Lead) UpdateStatus(status string) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	l.Status = status
	return nil
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
