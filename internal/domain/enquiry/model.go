package enquiry

import (
	"errors"
	"strings"
	"time"
)

// Status constants for the enquiry lifecycle. The initial status depends on
// whether the guardian booked a consultation slot.
const (
	StatusConsultationRequested = "CONSULTATION_REQUESTED"
	StatusConsultationScheduled = "CONSULTATION_SCHEDULED"
	StatusContacted             = "CONTACTED"
	StatusEnrolled              = "ENROLLED"
	StatusClosed                = "CLOSED"
)

// StageNewEnquiry marks a record that no staff member has reviewed yet.
const StageNewEnquiry = "NEW_ENQUIRY"

// Student count bounds per enquiry.
const (
	MinStudents = 1
	MaxStudents = 4
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{
	StatusConsultationRequested,
	StatusConsultationScheduled,
	StatusContacted,
	StatusEnrolled,
	StatusClosed,
}

// Domain errors
var (
	ErrEmptyGuardianName  = errors.New("guardian first and last name are required")
	ErrEmptyGuardianEmail = errors.New("guardian email is required")
	ErrEmptyGuardianPhone = errors.New("guardian phone is required")
	ErrStudentCount       = errors.New("an enquiry must have between 1 and 4 students")
	ErrStudentFields      = errors.New("every student needs a first name, last name and year level")
	ErrNoGoals            = errors.New("at least one goal must be selected")
	ErrInvalidStatus      = errors.New("invalid enquiry status")
)

// Student is one child attached to an enquiry. Rows are created together with
// the parent enquiry as a single unit.
type Student struct {
	ID         string
	EnquiryID  string
	FirstName  string
	LastName   string
	GradeLevel string
	School     string
}

// Enquiry is the primary consultation-request record with full structured data.
type Enquiry struct {
	ID                string
	GuardianFirstName string
	GuardianLastName  string
	GuardianEmail     string
	GuardianPhone     string
	ReferralSource    string
	AcademicGoals     []string
	LearningGoals     []string
	PersonalGoals     []string
	SlotID            string    // set only when a real slot was resolved
	ScheduledAt       time.Time // slot start, or submission time when no slot resolved
	Status            string
	Stage             string
	CreatedAt         time.Time
	Students          []Student
}

// Validate checks if the Enquiry has valid data.
// PRE: Enquiry struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Enquiry) Validate() error {
	if strings.TrimSpace(e.GuardianFirstName) == "" || strings.TrimSpace(e.GuardianLastName) == "" {
		return ErrEmptyGuardianName
	}
	if strings.TrimSpace(e.GuardianEmail) == "" {
		return ErrEmptyGuardianEmail
	}
	if strings.TrimSpace(e.GuardianPhone) == "" {
		return ErrEmptyGuardianPhone
	}
	if len(e.Students) < MinStudents || len(e.Students) > MaxStudents {
		return ErrStudentCount
	}
	for _, s := range e.Students {
		if strings.TrimSpace(s.FirstName) == "" || strings.TrimSpace(s.LastName) == "" || strings.TrimSpace(s.GradeLevel) == "" {
			return ErrStudentFields
		}
	}
	if e.GoalCount() < 1 {
		return ErrNoGoals
	}
	if !isValidStatus(e.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// GoalCount returns the number of goals selected across all three categories.
// INVARIANT: Enquiry fields are not mutated
func (e *Enquiry) GoalCount() int {
	return len(e.AcademicGoals) + len(e.LearningGoals) + len(e.PersonalGoals)
}

// StudentFirstNames returns the first names in entry order, for the
// confirmation message.
// INVARIANT: Enquiry fields are not mutated
func (e *Enquiry) StudentFirstNames() []string {
	names := make([]string, 0, len(e.Students))
	for _, s := range e.Students {
		names = append(names, s.FirstName)
	}
	return names
}

// GuardianName returns the guardian's full name.
// INVARIANT: Enquiry fields are not mutated
func (e *Enquiry) GuardianName() string {
	return strings.TrimSpace(e.GuardianFirstName + " " + e.GuardianLastName)
}

// GoalSummary returns a text block concatenating the three goal categories,
// used in the notification email and the legacy lead's notes.
// INVARIANT: Enquiry fields are not mutated
func (e *Enquiry) GoalSummary() string {
	var b strings.Builder
	b.WriteString("Academic goals: " + joinOrNone(e.AcademicGoals))
	b.WriteString("\nLearning goals: " + joinOrNone(e.LearningGoals))
	b.WriteString("\nPersonal goals: " + joinOrNone(e.PersonalGoals))
	return b.String()
}

// HasSlot returns true if a real availability slot was resolved at submission.
// INVARIANT: Enquiry fields are not mutated
func (e *Enquiry) HasSlot() bool {
	return e.SlotID != ""
}

// UpdateStatus moves the enquiry to a new lifecycle status.
// PRE: status is one of ValidStatuses
// POST: Status is updated
func (e *Enquiry) UpdateStatus(status string) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	e.Status = status
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

func joinOrNone(goals []string) string {
	if len(goals) == 0 {
		return "none"
	}
	return strings.Join(goals, ", ")
}
