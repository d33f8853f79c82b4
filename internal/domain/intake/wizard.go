package intake

import "fmt"

// Wizard drives the four-step consultation enquiry form. All operations are
// synchronous in-memory mutations; the caller owns re-rendering and the final
// submission round-trip.
type Wizard struct {
	Draft      Draft
	Step       int
	Errors     map[string]string
	Submitting bool
	Submitted  bool // terminal — no further edits through this instance
}

// NewWizard creates a wizard at step 1 with an empty draft.
// POST: Step == StepGuardian, Draft has one blank student
func NewWizard() *Wizard {
	return &Wizard{
		Draft:  NewDraft(),
		Step:   StepGuardian,
		Errors: make(map[string]string),
	}
}

// UpdateGuardianField sets one guardian field and clears its validation error.
// Unknown field names are ignored. Always succeeds.
// POST: Field is set, Errors[field] is cleared
func (w *Wizard) UpdateGuardianField(field, value string) {
	switch field {
	case "firstName":
		w.Draft.Guardian.FirstName = value
	case "lastName":
		w.Draft.Guardian.LastName = value
	case "email":
		w.Draft.Guardian.Email = value
	case "phone":
		w.Draft.Guardian.Phone = value
	case "referralSource":
		w.Draft.Guardian.ReferralSource = value
	default:
		return
	}
	delete(w.Errors, field)
}

// UpdateStudent mutates one student entry by position and clears its errors.
// Out-of-range indexes are ignored. The school field is never required.
func (w *Wizard) UpdateStudent(index int, field, value string) {
	if index < 0 || index >= len(w.Draft.Students) {
		return
	}
	s := &w.Draft.Students[index]
	switch field {
	case "firstName":
		s.FirstName = value
	case "lastName":
		s.LastName = value
	case "gradeLevel":
		s.GradeLevel = value
	case "school":
		s.School = value
	default:
		return
	}
	delete(w.Errors, studentErrorKey(index, field))
}

// AddStudent appends a blank student entry.
// POST: Length grows by 1, or is unchanged at MaxStudents (silent cap)
func (w *Wizard) AddStudent() {
	if len(w.Draft.Students) >= MaxStudents {
		return
	}
	w.Draft.Students = append(w.Draft.Students, Student{})
}

// RemoveStudent removes a student entry by position.
// POST: Length shrinks by 1, or is unchanged at MinStudents (at least one
// student is always required)
func (w *Wizard) RemoveStudent(index int) {
	if len(w.Draft.Students) <= MinStudents {
		return
	}
	if index < 0 || index >= len(w.Draft.Students) {
		return
	}
	w.Draft.Students = append(w.Draft.Students[:index], w.Draft.Students[index+1:]...)
}

// ToggleGoal adds or removes a goal in the given category. Adding is a silent
// no-op once the category holds MaxGoalsPerCategory selections.
func (w *Wizard) ToggleGoal(category, goal string) {
	var list *[]string
	switch category {
	case CategoryAcademic:
		list = &w.Draft.AcademicGoals
	case CategoryLearning:
		list = &w.Draft.LearningGoals
	case CategoryPersonal:
		list = &w.Draft.PersonalGoals
	default:
		return
	}
	for i, g := range *list {
		if g == goal {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
	if len(*list) >= MaxGoalsPerCategory {
		return
	}
	*list = append(*list, goal)
	delete(w.Errors, "goals")
}

// SelectSlot records the chosen availability slot. Empty clears the choice.
func (w *Wizard) SelectSlot(slotID string) {
	w.Draft.SelectedSlotID = slotID
}

// SetAgreeToPrivacy records the privacy-policy agreement.
func (w *Wizard) SetAgreeToPrivacy(agree bool) {
	w.Draft.AgreeToPrivacy = agree
	if agree {
		delete(w.Errors, "agreeToPrivacy")
	}
}

// ValidateStep checks one step's rules and records the messages in Errors.
// POST: Errors holds exactly the current step's failures; returns true if clean
func (w *Wizard) ValidateStep(step int) bool {
	w.Errors = w.Draft.ValidateStep(step)
	return len(w.Errors) == 0
}

// Next advances to the following step if the current step validates.
// POST: Step advances by 1 when clean, capped at StepSchedule; returns whether
// the wizard advanced
func (w *Wizard) Next() bool {
	if w.Submitted || w.Step >= StepSchedule {
		return false
	}
	if !w.ValidateStep(w.Step) {
		return false
	}
	w.Step++
	return true
}

// Back returns to the previous step without re-validating.
// POST: Step decreases by 1, floored at StepGuardian
func (w *Wizard) Back() {
	if w.Step > StepGuardian {
		w.Step--
	}
}

// BeginSubmit runs the final step's validation and marks the wizard in-flight.
// POST: Returns true and sets Submitting when step 4 is clean
func (w *Wizard) BeginSubmit() bool {
	if w.Submitted || w.Submitting {
		return false
	}
	if !w.ValidateStep(StepSchedule) {
		return false
	}
	w.Submitting = true
	return true
}

// FinishSubmit records the outcome of the submission round-trip. On failure
// the draft is retained so the user can correct and retry.
// POST: Submitted is set on success and is terminal; Submitting is cleared
func (w *Wizard) FinishSubmit(success bool) {
	w.Submitting = false
	if success {
		w.Submitted = true
	}
}

func studentErrorKey(index int, field string) string {
	return fmt.Sprintf("students.%d.%s", index, field)
}
