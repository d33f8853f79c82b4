package web

import (
	"net/http"
	"strings"
	"time"

	"keystone/internal/adapters/http/middleware"
	"keystone/internal/application/listutil"
	"keystone/internal/application/orchestrators"
	"keystone/internal/application/projections"
	domain "keystone/internal/domain/enquiry"
)

// handleAdminLogin handles POST /admin/login with a JSON credential payload.
// On success a session cookie is set for the admin API endpoints.
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    payload.Email,
		Password: payload.Password,
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email, "role": result.Role})
}

// handleAdminLogout handles POST /admin/logout.
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	cookie, err := r.Cookie("keystone_session")
	if err == nil {
		sessions.Delete(cookie.Value)
	}

	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// requireStaff checks for an authenticated staff session on admin API routes.
func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return false
	}
	return true
}

type enquiryListItemJSON struct {
	ID           string   `json:"id"`
	GuardianName string   `json:"guardianName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	StudentNames []string `json:"studentNames"`
	Status       string   `json:"status"`
	Stage        string   `json:"stage"`
	ScheduledAt  string   `json:"scheduledAt"`
	CreatedAt    string   `json:"createdAt"`
}

// handleAdminEnquiries handles GET /admin/api/enquiries.
// Query params: page, pageSize, status, search, sort, dir.
func handleAdminEnquiries(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireStaff(w, r) {
		return
	}

	params := listutil.ParseListParams(r.URL.Query(),
		[]string{"created", "scheduled", "status", "name"},
		[]string{"status"},
	)
	query := projections.GetEnquiryListQuery{
		Page:     params.Page,
		PageSize: params.PageSize,
		Status:   params.Filters["status"],
		Search:   params.Search,
		Sort:     params.Sort,
		Dir:      params.Dir,
	}

	result, err := projections.QueryGetEnquiryList(r.Context(), query, projections.GetEnquiryListDeps{
		EnquiryStore: stores.EnquiryStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	items := make([]enquiryListItemJSON, 0, len(result.Enquiries))
	for _, e := range result.Enquiries {
		items = append(items, enquiryListItemJSON{
			ID:           e.ID,
			GuardianName: e.GuardianName(),
			Email:        e.GuardianEmail,
			Phone:        e.GuardianPhone,
			StudentNames: e.StudentFirstNames(),
			Status:       e.Status,
			Stage:        e.Stage,
			ScheduledAt:  e.ScheduledAt.Format(time.RFC3339),
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enquiries":  items,
		"total":      result.Total,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalPages": result.TotalPages,
	})
}

// handleAdminEnquiryByID handles GET /admin/api/enquiries/{id} and
// POST /admin/api/enquiries/{id}/status.
func handleAdminEnquiryByID(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/admin/api/enquiries/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == "GET":
		e, err := stores.EnquiryStore.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "enquiry not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEnquiryDetailJSON(e))

	case len(parts) == 2 && parts[1] == "status" && r.Method == "POST":
		var payload struct {
			Status string `json:"status"`
		}
		if err := strictDecode(r, &payload); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		err := orchestrators.ExecuteUpdateEnquiryStatus(r.Context(), orchestrators.UpdateEnquiryStatusInput{
			EnquiryID: id,
			Status:    payload.Status,
		}, orchestrators.UpdateEnquiryStatusDeps{
			EnquiryStore: stores.EnquiryStore,
			LeadStore:    stores.LeadStore,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": payload.Status})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type studentJSON struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	GradeLevel string `json:"gradeLevel"`
	School     string `json:"school"`
}

func toEnquiryDetailJSON(e domain.Enquiry) map[string]any {
	students := make([]studentJSON, 0, len(e.Students))
	for _, s := range e.Students {
		students = append(students, studentJSON{
			FirstName:  s.FirstName,
			LastName:   s.LastName,
			GradeLevel: s.GradeLevel,
			School:     s.School,
		})
	}
	guardian := map[string]string{
		"firstName":      e.GuardianFirstName,
		"lastName":       e.GuardianLastName,
		"email":          e.GuardianEmail,
		"phone":          e.GuardianPhone,
		"referralSource": e.ReferralSource,
	}
	return map[string]any{
		"id":            e.ID,
		"guardian":      guardian,
		"students":      students,
		"academicGoals": e.AcademicGoals,
		"learningGoals": e.LearningGoals,
		"personalGoals": e.PersonalGoals,
		"slotId":        e.SlotID,
		"scheduledAt":   e.ScheduledAt.Format(time.RFC3339),
		"status":        e.Status,
		"stage":         e.Stage,
		"createdAt":     e.CreatedAt.Format(time.RFC3339),
	}
}
