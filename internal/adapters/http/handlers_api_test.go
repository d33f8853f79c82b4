package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"keystone/internal/adapters/http/middleware"
	enquiryStore "keystone/internal/adapters/storage/enquiry"

	accountDomain "keystone/internal/domain/account"
	bookingDomain "keystone/internal/domain/booking"
	enquiryDomain "keystone/internal/domain/enquiry"
	leadDomain "keystone/internal/domain/lead"
	outboxDomain "keystone/internal/domain/outbox"
	slotDomain "keystone/internal/domain/slot"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockEnquiryStore struct {
	enquiries map[string]enquiryDomain.Enquiry
	order     []string
}

func (m *mockEnquiryStore) GetByID(ctx context.Context, id string) (enquiryDomain.Enquiry, error) {
	if e, ok := m.enquiries[id]; ok {
		return e, nil
	}
	return enquiryDomain.Enquiry{}, sql.ErrNoRows
}

func (m *mockEnquiryStore) Save(ctx context.Context, e enquiryDomain.Enquiry) error {
	if _, ok := m.enquiries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.enquiries[e.ID] = e
	return nil
}

func (m *mockEnquiryStore) UpdateStatus(ctx context.Context, id, status string) error {
	e, ok := m.enquiries[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	m.enquiries[id] = e
	return nil
}

func (m *mockEnquiryStore) List(ctx context.Context, filter enquiryStore.ListFilter) ([]enquiryDomain.Enquiry, error) {
	var out []enquiryDomain.Enquiry
	for _, id := range m.order {
		e := m.enquiries[id]
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEnquiryStore) Count(ctx context.Context, filter enquiryStore.ListFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

type mockLeadStore struct {
	leads map[string]leadDomain.Lead
}

func (m *mockLeadStore) GetByID(ctx context.Context, id string) (leadDomain.Lead, error) {
	if l, ok := m.leads[id]; ok {
		return l, nil
	}
	return leadDomain.Lead{}, sql.ErrNoRows
}

func (m *mockLeadStore) GetByEmail(ctx context.Context, email string) (leadDomain.Lead, error) {
	for _, l := range m.leads {
		if l.Email == email {
			return l, nil
		}
	}
	return leadDomain.Lead{}, sql.ErrNoRows
}

func (m *mockLeadStore) Save(ctx context.Context, l leadDomain.Lead) error {
	m.leads[l.ID] = l
	return nil
}

func (m *mockLeadStore) List(ctx context.Context, limit, offset int) ([]leadDomain.Lead, error) {
	var out []leadDomain.Lead
	for _, l := range m.leads {
		out = append(out, l)
	}
	return out, nil
}

type mockSlotStore struct {
	slots map[string]slotDomain.Slot
}

func (m *mockSlotStore) GetByID(ctx context.Context, id string) (slotDomain.Slot, error) {
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	return slotDomain.Slot{}, sql.ErrNoRows
}

func (m *mockSlotStore) Save(ctx context.Context, s slotDomain.Slot) error {
	m.slots[s.ID] = s
	return nil
}

func (m *mockSlotStore) ListAvailable(ctx context.Context, after time.Time, limit int) ([]slotDomain.Slot, error) {
	var out []slotDomain.Slot
	for _, s := range m.slots {
		if s.IsAvailable(after) {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockSlotStore) Count(ctx context.Context) (int, error) {
	return len(m.slots), nil
}

type mockBookingStore struct {
	bookings map[string]bookingDomain.Booking
}

func (m *mockBookingStore) GetByID(ctx context.Context, id string) (bookingDomain.Booking, error) {
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return bookingDomain.Booking{}, sql.ErrNoRows
}

func (m *mockBookingStore) Save(ctx context.Context, b bookingDomain.Booking) error {
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingStore) ListByLeadID(ctx context.Context, leadID string) ([]bookingDomain.Booking, error) {
	var out []bookingDomain.Booking
	for _, b := range m.bookings {
		if b.LeadID == leadID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockOutboxStore struct {
	entries map[string]outboxDomain.Entry
}

func (m *mockOutboxStore) GetByID(ctx context.Context, id string) (outboxDomain.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return outboxDomain.Entry{}, errors.New("outbox entry not found")
}

func (m *mockOutboxStore) Save(ctx context.Context, e outboxDomain.Entry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	var out []outboxDomain.Entry
	for _, e := range m.entries {
		if e.Status == outboxDomain.StatusPending || e.Status == outboxDomain.StatusRetrying {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockOutboxStore) ListFailed(ctx context.Context, limit int) ([]outboxDomain.Entry, error) {
	var out []outboxDomain.Entry
	for _, e := range m.entries {
		if e.Status == outboxDomain.StatusFailed {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockOutboxStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

// --- Test helpers ---

// newFullStores returns a Stores with all mock stores initialized.
func newFullStores() *Stores {
	return &Stores{
		AccountStore: &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		EnquiryStore: &mockEnquiryStore{enquiries: make(map[string]enquiryDomain.Enquiry)},
		LeadStore:    &mockLeadStore{leads: make(map[string]leadDomain.Lead)},
		SlotStore:    &mockSlotStore{slots: make(map[string]slotDomain.Slot)},
		BookingStore: &mockBookingStore{bookings: make(map[string]bookingDomain.Booking)},
		OutboxStore:  &mockOutboxStore{entries: make(map[string]outboxDomain.Entry)},
	}
}

func setupTest() {
	stores = newFullStores()
	sessions = middleware.NewSessionStore()
	emailSender = nil
	notifyEmailAddress = ""
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

var adminSession = middleware.Session{
	AccountID: "admin-001",
	Email:     "admin@keystonetutoring.com.au",
	Role:      "admin",
	CreatedAt: time.Now(),
}

var staffSession = middleware.Session{
	AccountID: "staff-001",
	Email:     "staff@keystonetutoring.com.au",
	Role:      "staff",
	CreatedAt: time.Now(),
}

const janeDoeBody = `{
	"guardian": {"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "phone": "0400 000 000"},
	"students": [{"firstName": "Sam", "lastName": "Doe", "gradeLevel": "Year 7"}],
	"academicGoals": ["Improve maths results"],
	"agreeToPrivacy": true
}`

// --- Tests: /api/slots ---

func TestHandleSlots_GroupsByDate(t *testing.T) {
	setupTest()
	ss := stores.SlotStore.(*mockSlotStore)
	ss.slots["s1"] = slotDomain.Slot{ID: "s1", StartTime: time.Now().Add(24 * time.Hour), DurationMins: 45, IsEnabled: true}
	ss.slots["s2"] = slotDomain.Slot{ID: "s2", StartTime: time.Now().Add(48 * time.Hour), DurationMins: 45, IsEnabled: true}

	req := httptest.NewRequest("GET", "/api/slots", nil)
	rec := httptest.NewRecorder()
	handleSlots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		Dates []struct {
			Date  string `json:"date"`
			Slots []struct {
				ID           string `json:"id"`
				StartTime    string `json:"startTime"`
				DurationMins int    `json:"durationMins"`
			} `json:"slots"`
		} `json:"dates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	total := 0
	for _, d := range resp.Dates {
		total += len(d.Slots)
	}
	if total != 2 {
		t.Errorf("slots returned = %d, want 2", total)
	}
}

func TestHandleSlots_EmptyStillOK(t *testing.T) {
	setupTest()

	req := httptest.NewRequest("GET", "/api/slots", nil)
	rec := httptest.NewRecorder()
	handleSlots(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"dates":[]`) {
		t.Errorf("body = %s, want empty dates list", rec.Body.String())
	}
}

func TestHandleSlots_MethodNotAllowed(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("POST", "/api/slots", nil)
	rec := httptest.NewRecorder()
	handleSlots(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

// --- Tests: /api/enquiry ---

func TestHandleSubmitEnquiry_Success(t *testing.T) {
	setupTest()

	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(janeDoeBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false, error = %q", resp.Error)
	}
	if resp.EnquiryID == "" || resp.LeadID == "" {
		t.Errorf("ids missing: %+v", resp)
	}
	if len(resp.StudentNames) != 1 || resp.StudentNames[0] != "Sam" {
		t.Errorf("studentNames = %v, want [Sam]", resp.StudentNames)
	}

	es := stores.EnquiryStore.(*mockEnquiryStore)
	if es.enquiries[resp.EnquiryID].Status != enquiryDomain.StatusConsultationRequested {
		t.Errorf("enquiry status = %q", es.enquiries[resp.EnquiryID].Status)
	}
	ls := stores.LeadStore.(*mockLeadStore)
	if ls.leads[resp.LeadID].Status != leadDomain.StatusNew {
		t.Errorf("lead status = %q", ls.leads[resp.LeadID].Status)
	}
}

func TestHandleSubmitEnquiry_ValidationFailure(t *testing.T) {
	setupTest()
	body := strings.Replace(janeDoeBody, `"email": "jane@example.com", `, "", 1)

	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatal("success = true for a draft without a guardian email")
	}
	if !strings.Contains(resp.Error, "Validation failed") {
		t.Errorf("error = %q, want a validation message", resp.Error)
	}

	es := stores.EnquiryStore.(*mockEnquiryStore)
	if len(es.enquiries) != 0 {
		t.Error("no enquiry may be created when validation fails")
	}
}

func TestHandleSubmitEnquiry_MalformedBody(t *testing.T) {
	setupTest()

	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(`{"guardian": }`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSubmitEnquiry_UnknownFieldRejected(t *testing.T) {
	setupTest()
	body := strings.Replace(janeDoeBody, `"agreeToPrivacy": true`, `"agreeToPrivacy": true, "isAdmin": true`, 1)

	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleSubmitEnquiry_MethodNotAllowed(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/api/enquiry", nil)
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleSubmitEnquiry_BookedSlot(t *testing.T) {
	setupTest()
	ss := stores.SlotStore.(*mockSlotStore)
	start := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	ss.slots["slot-1"] = slotDomain.Slot{ID: "slot-1", StartTime: start, DurationMins: 45, IsEnabled: true}

	body := strings.Replace(janeDoeBody, `"agreeToPrivacy": true`, `"selectedSlotId": "slot-1", "agreeToPrivacy": true`, 1)
	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handleSubmitEnquiry(rec, req)

	var resp submitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false, error = %q", resp.Error)
	}

	es := stores.EnquiryStore.(*mockEnquiryStore)
	if es.enquiries[resp.EnquiryID].Status != enquiryDomain.StatusConsultationScheduled {
		t.Errorf("enquiry status = %q, want CONSULTATION_SCHEDULED", es.enquiries[resp.EnquiryID].Status)
	}
	if !ss.slots["slot-1"].IsBooked {
		t.Error("slot should be booked after submission")
	}
	bs := stores.BookingStore.(*mockBookingStore)
	if len(bs.bookings) != 1 {
		t.Errorf("bookings = %d, want 1", len(bs.bookings))
	}
}

// --- Tests: /api/intake/validate ---

func TestHandleIntakeValidate(t *testing.T) {
	setupTest()

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantValid bool
	}{
		{
			"valid guardian step",
			`{"step": 1, "guardian": {"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "phone": "0400 000 000"}}`,
			http.StatusOK, true,
		},
		{
			"guardian step missing phone",
			`{"step": 1, "guardian": {"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com"}}`,
			http.StatusOK, false,
		},
		{
			"goals step with none chosen",
			`{"step": 3, "students": [{"firstName": "Sam", "lastName": "Doe", "gradeLevel": "Year 7"}]}`,
			http.StatusOK, false,
		},
		{
			"schedule step without privacy agreement",
			`{"step": 4}`,
			http.StatusOK, false,
		},
		{"step zero", `{"step": 0}`, http.StatusBadRequest, false},
		{"step out of range", `{"step": 5}`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/intake/validate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handleIntakeValidate(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("got %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp struct {
				Valid  bool              `json:"valid"`
				Errors map[string]string `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Valid != tt.wantValid {
				t.Errorf("valid = %v, errors = %v", resp.Valid, resp.Errors)
			}
		})
	}
}

// --- Tests: admin API ---

func TestHandleAdminEnquiries_Unauthenticated(t *testing.T) {
	setupTest()
	req := httptest.NewRequest("GET", "/admin/api/enquiries", nil)
	rec := httptest.NewRecorder()
	handleAdminEnquiries(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestHandleAdminEnquiries_List(t *testing.T) {
	setupTest()
	es := stores.EnquiryStore.(*mockEnquiryStore)
	e := enquiryDomain.Enquiry{
		ID:                "enq-1",
		GuardianFirstName: "Jane",
		GuardianLastName:  "Doe",
		GuardianEmail:     "jane@example.com",
		GuardianPhone:     "0400 000 000",
		Students:          []enquiryDomain.Student{{ID: "s1", EnquiryID: "enq-1", FirstName: "Sam", LastName: "Doe", GradeLevel: "Year 7"}},
		AcademicGoals:     []string{"Improve maths results"},
		ScheduledAt:       time.Now(),
		Status:            enquiryDomain.StatusConsultationRequested,
		Stage:             enquiryDomain.StageNewEnquiry,
		CreatedAt:         time.Now(),
	}
	es.Save(context.Background(), e)

	req := authRequest("GET", "/admin/api/enquiries", "", staffSession)
	rec := httptest.NewRecorder()
	handleAdminEnquiries(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Enquiries []enquiryListItemJSON `json:"enquiries"`
		Total     int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Enquiries) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Enquiries[0].GuardianName != "Jane Doe" {
		t.Errorf("guardianName = %q", resp.Enquiries[0].GuardianName)
	}
	if len(resp.Enquiries[0].StudentNames) != 1 || resp.Enquiries[0].StudentNames[0] != "Sam" {
		t.Errorf("studentNames = %v", resp.Enquiries[0].StudentNames)
	}
}

func TestHandleAdminEnquiryByID_StatusUpdate(t *testing.T) {
	setupTest()
	es := stores.EnquiryStore.(*mockEnquiryStore)
	es.Save(context.Background(), enquiryDomain.Enquiry{
		ID:            "enq-1",
		GuardianEmail: "jane@example.com",
		Status:        enquiryDomain.StatusConsultationRequested,
	})
	ls := stores.LeadStore.(*mockLeadStore)
	ls.Save(context.Background(), leadDomain.Lead{ID: "lead-1", Name: "Jane Doe", Email: "jane@example.com", Status: leadDomain.StatusNew})

	body := `{"status": "CONTACTED"}`
	req := authRequest("POST", "/admin/api/enquiries/enq-1/status", body, staffSession)
	rec := httptest.NewRecorder()
	handleAdminEnquiryByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if es.enquiries["enq-1"].Status != enquiryDomain.StatusContacted {
		t.Errorf("enquiry status = %q", es.enquiries["enq-1"].Status)
	}
	if ls.leads["lead-1"].Status != leadDomain.StatusContacted {
		t.Errorf("lead status = %q, want synced CONTACTED", ls.leads["lead-1"].Status)
	}
}

func TestHandleAdminEnquiryByID_NotFound(t *testing.T) {
	setupTest()
	req := authRequest("GET", "/admin/api/enquiries/missing", "", staffSession)
	rec := httptest.NewRecorder()
	handleAdminEnquiryByID(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleAdminOutbox_RequiresAdmin(t *testing.T) {
	setupTest()
	req := authRequest("GET", "/admin/api/outbox", "", staffSession)
	rec := httptest.NewRecorder()
	handleAdminOutbox(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHandleAdminOutbox_ListFailed(t *testing.T) {
	setupTest()
	os := stores.OutboxStore.(*mockOutboxStore)
	os.entries["e1"] = outboxDomain.Entry{ID: "e1", ActionType: outboxDomain.ActionTypeEmail, Payload: "{}", Status: outboxDomain.StatusFailed, Attempts: 5, MaxAttempts: 5}

	req := authRequest("GET", "/admin/api/outbox", "", adminSession)
	rec := httptest.NewRecorder()
	handleAdminOutbox(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"e1"`) {
		t.Errorf("body = %s, want failed entry listed", rec.Body.String())
	}
}

// --- Tests: admin login ---

func TestHandleAdminLogin(t *testing.T) {
	setupTest()
	as := stores.AccountStore.(*mockAccountStore)
	acct := accountDomain.Account{
		ID:        "admin-001",
		Email:     "admin@keystonetutoring.com.au",
		Role:      accountDomain.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := acct.SetPassword("a long enough password"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	as.Save(context.Background(), acct)

	t.Run("success sets session cookie", func(t *testing.T) {
		body := `{"email": "admin@keystonetutoring.com.au", "password": "a long enough password"}`
		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handleAdminLogin(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		cookies := rec.Result().Cookies()
		found := false
		for _, c := range cookies {
			if c.Name == "keystone_session" && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("session cookie not set")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"email": "admin@keystonetutoring.com.au", "password": "not the password"}`
		req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handleAdminLogin(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}
