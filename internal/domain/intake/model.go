package intake

import (
	"fmt"
	"strings"
)

// Wizard step constants. Steps are strictly linear.
const (
	StepGuardian = 1
	StepStudents = 2
	StepGoals    = 3
	StepSchedule = 4
)

// Business rule constants
const (
	MinStudents         = 1
	MaxStudents         = 4
	MaxGoalsPerCategory = 3
)

// Goal category constants
const (
	CategoryAcademic = "academic"
	CategoryLearning = "learning"
	CategoryPersonal = "personal"
)

// Guardian holds the parent/carer contact details collected in step 1.
type Guardian struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	ReferralSource string // optional
}

// Student holds one child's details collected in step 2.
type Student struct {
	FirstName  string
	LastName   string
	GradeLevel string
	School     string // optional
}

// Draft holds all in-progress intake data. It is never partially persisted;
// the submission transaction receives the whole draft after step 4 validates.
type Draft struct {
	Guardian       Guardian
	Students       []Student
	AcademicGoals  []string
	LearningGoals  []string
	PersonalGoals  []string
	SelectedSlotID string // optional; empty means "contact me"
	AgreeToPrivacy bool
}

// NewDraft creates an empty draft with one blank student row.
// POST: len(Students) == MinStudents
func NewDraft() Draft {
	return Draft{Students: make([]Student, MinStudents)}
}

// GoalCount returns the total number of selected goals across all categories.
// INVARIANT: Draft fields are not mutated
func (d *Draft) GoalCount() int {
	return len(d.AcademicGoals) + len(d.LearningGoals) + len(d.PersonalGoals)
}

// ValidateStep checks the required fields for a single step.
// PRE: step is one of the Step* constants
// POST: Returns a map of field key to error message; empty map means clean
// INVARIANT: Draft fields are not mutated
func (d *Draft) ValidateStep(step int) map[string]string {
	errs := make(map[string]string)
	switch step {
	case StepGuardian:
		if strings.TrimSpace(d.Guardian.FirstName) == "" {
			errs["firstName"] = "First name is required"
		}
		if strings.TrimSpace(d.Guardian.LastName) == "" {
			errs["lastName"] = "Last name is required"
		}
		if strings.TrimSpace(d.Guardian.Email) == "" {
			errs["email"] = "Email is required"
		}
		if strings.TrimSpace(d.Guardian.Phone) == "" {
			errs["phone"] = "Phone number is required"
		}
	case StepStudents:
		for i, s := range d.Students {
			if strings.TrimSpace(s.FirstName) == "" {
				errs[fmt.Sprintf("students.%d.firstName", i)] = "Student first name is required"
			}
			if strings.TrimSpace(s.LastName) == "" {
				errs[fmt.Sprintf("students.%d.lastName", i)] = "Student last name is required"
			}
			if strings.TrimSpace(s.GradeLevel) == "" {
				errs[fmt.Sprintf("students.%d.gradeLevel", i)] = "Year level is required"
			}
		}
	case StepGoals:
		if d.GoalCount() < 1 {
			errs["goals"] = "Select at least one goal"
		}
	case StepSchedule:
		// Slot selection is optional — "submit anyway, we'll contact you".
		if !d.AgreeToPrivacy {
			errs["agreeToPrivacy"] = "You must agree to the privacy policy"
		}
	}
	return errs
}

// Validate runs every step's checks and merges the results. Used by the
// server-side re-validation, which never trusts the client.
// POST: Returns merged field-to-message map; empty map means the draft is submittable
// INVARIANT: Draft fields are not mutated
func (d *Draft) Validate() map[string]string {
	errs := make(map[string]string)
	if len(d.Students) < MinStudents || len(d.Students) > MaxStudents {
		errs["students"] = fmt.Sprintf("Between %d and %d students are required", MinStudents, MaxStudents)
	}
	for step := StepGuardian; step <= StepSchedule; step++ {
		for k, v := range d.ValidateStep(step) {
			errs[k] = v
		}
	}
	return errs
}
