package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"einsatzplan/internal/dto"
	"einsatzplan/internal/service"
	"einsatzplan/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	loggedOut     string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, token string) error {
	m.loggedOut = token
	return m.logoutErr
}
func (m *mockAuthService) Me(sess service.Session) dto.SessionResponse {
	return dto.SessionResponse{UserID: sess.UserID, Name: sess.Name, Role: sess.Role, EmployeeID: sess.EmployeeID}
}

// ── Mock PlanService ──

type mockPlanService struct {
	getResult    *dto.PlanResponse
	getErr       error
	commitResult *dto.CommitPlanResponse
	commitErr    error
	mineResult   []dto.AssignmentResponse
	mineErr      error
	mineSession  service.Session
	mineNow      time.Time
}

func (m *mockPlanService) GetPlan(_ context.Context, _ string, _, _ int) (*dto.PlanResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockPlanService) CommitPlan(_ context.Context, _ string, _ *dto.CommitPlanRequest) (*dto.CommitPlanResponse, error) {
	return m.commitResult, m.commitErr
}
func (m *mockPlanService) MyAssignments(_ context.Context, sess service.Session, now time.Time) ([]dto.AssignmentResponse, error) {
	m.mineSession, m.mineNow = sess, now
	return m.mineResult, m.mineErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
	siteID   string
	session  service.Session
}

func (m *mockExportService) PlanCSV(_ context.Context, siteID string, _, _ int) (*bytes.Buffer, string, error) {
	m.siteID = siteID
	return m.buf, m.filename, m.err
}
func (m *mockExportService) PlanXLSX(_ context.Context, siteID string, _, _ int) (*bytes.Buffer, string, error) {
	m.siteID = siteID
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ReportXLSX(_ context.Context, _, _ int) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) MyAssignmentsICS(_ context.Context, sess service.Session, _ time.Time) (*bytes.Buffer, string, error) {
	m.session = sess
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

var adminSession = service.Session{UserID: "admin:disponent", Name: "disponent", Role: service.RoleAdmin}

func withSession(sess service.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SessionKey, sess)
		c.Set(TokenKey, "test-access-token")
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900},
	}, &mockPlanService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "disponent", Credential: "geheim123"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockPlanService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("{"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized, 11001},
		{service.ErrAccountInactive, http.StatusForbidden, 11002},
		{errors.New("db down"), http.StatusInternalServerError, 50000},
	}
	for _, c := range cases {
		h := NewAuthHandler(&mockAuthService{loginErr: c.err}, &mockPlanService{})
		r := gin.New()
		r.POST("/auth/login", h.Login)
		w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "x", Credential: "y"}))

		if w.Code != c.wantStatus {
			t.Errorf("%v: expected %d, got %d", c.err, c.wantStatus, w.Code)
		}
		if resp := parseResponse(w); resp.Code != c.wantCode {
			t.Errorf("%v: expected code %d, got %d", c.err, c.wantCode, resp.Code)
		}
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidToken}, &mockPlanService{})

	r := gin.New()
	r.POST("/auth/refresh", h.Refresh)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_UsesRequestToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, &mockPlanService{})

	r := gin.New()
	r.POST("/auth/logout", withSession(adminSession), h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.loggedOut != "test-access-token" {
		t.Errorf("expected the request token to be revoked, got %q", mock.loggedOut)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockPlanService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_MyAssignments(t *testing.T) {
	fixed := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	staff := service.Session{UserID: "emp-max", Name: "Max Mustermann", Role: service.RoleStaff, EmployeeID: "emp-max"}
	plans := &mockPlanService{mineResult: []dto.AssignmentResponse{{Date: "2025-03-05", SiteName: "Haupttor", Hours: 7.5}}}
	h := NewAuthHandler(&mockAuthService{}, plans)

	r := gin.New()
	r.GET("/me/assignments", withSession(staff), h.MyAssignments)
	w := serve(r, "GET", "/me/assignments", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if plans.mineSession.EmployeeID != "emp-max" || !plans.mineNow.Equal(fixed) {
		t.Errorf("session or clock not passed through: %+v %v", plans.mineSession, plans.mineNow)
	}
}

func TestAuthHandler_MyAssignments_AdminWithoutEmployee(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockPlanService{mineErr: service.ErrNoEmployeeIdentity})

	r := gin.New()
	r.GET("/me/assignments", withSession(adminSession), h.MyAssignments)
	w := serve(r, "GET", "/me/assignments", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11004 {
		t.Errorf("expected code 11004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PlanHandler Tests
// ═══════════════════════════════════════════════════════════

func setupPlanRouter(plans *mockPlanService) *gin.Engine {
	h := NewPlanHandler(plans, nil)
	r := gin.New()
	r.GET("/plans/:site_id", h.Get)
	r.PUT("/plans/:site_id", h.Commit)
	return r
}

var commitBody = dto.CommitPlanRequest{Year: 2025, Month: 3, Rows: []dto.PlanRowInput{}}

func TestPlanHandler_Get_MissingMonth(t *testing.T) {
	w := serve(setupPlanRouter(&mockPlanService{}), "GET", "/plans/site-haupttor?year=2025", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15001 {
		t.Errorf("expected code 15001, got %d", resp.Code)
	}
}

func TestPlanHandler_Get_SiteNotFound(t *testing.T) {
	w := serve(setupPlanRouter(&mockPlanService{getErr: service.ErrSiteNotFound}), "GET", "/plans/x?year=2025&month=3", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestPlanHandler_Commit_Conflicts(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	conflictErr := &service.PlanConflictError{Conflicts: []service.Conflict{
		{Kind: service.ConflictLeave, Date: day, EmployeeID: "emp-ali", EmployeeName: "Ali Yilmaz", SlotLabel: "Pförtner", Status: "Krank"},
		{Kind: service.ConflictDoubleBooking, Date: day, EmployeeID: "emp-max", EmployeeName: "Max Mustermann",
			SlotLabel: "Schichtleiter", OtherSite: "Empfang", OtherSlot: "Rezeption", OtherRange: "23:00-07:00"},
	}}
	w := serve(setupPlanRouter(&mockPlanService{commitErr: fmt.Errorf("commit: %w", conflictErr)}),
		"PUT", "/plans/site-haupttor", jsonBody(commitBody))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Conflicts []dto.ConflictResponse `json:"conflicts"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != 30001 {
		t.Errorf("expected code 30001, got %d", resp.Code)
	}
	if len(resp.Data.Conflicts) != 2 {
		t.Fatalf("expected all conflicts in the response, got %d", len(resp.Data.Conflicts))
	}
	if !strings.Contains(resp.Data.Conflicts[0].Message, "Krank") {
		t.Errorf("leave message should name the status: %q", resp.Data.Conflicts[0].Message)
	}
}

func TestPlanHandler_Commit_ErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   int
	}{
		{fmt.Errorf("%w: deadlock", service.ErrPlanCommitFailed), http.StatusInternalServerError, 15102},
		{fmt.Errorf("%w: 2025-04-01", service.ErrDateOutsideMonth), http.StatusBadRequest, 15105},
		{fmt.Errorf("%w: slot-x", service.ErrSlotNotInSite), http.StatusBadRequest, 15104},
		{service.ErrSiteNotFound, http.StatusNotFound, 15101},
	}
	for _, c := range cases {
		w := serve(setupPlanRouter(&mockPlanService{commitErr: c.err}), "PUT", "/plans/site-haupttor", jsonBody(commitBody))

		if w.Code != c.wantStatus {
			t.Errorf("%v: expected %d, got %d", c.err, c.wantStatus, w.Code)
		}
		if resp := parseResponse(w); resp.Code != c.wantCode {
			t.Errorf("%v: expected code %d, got %d", c.err, c.wantCode, resp.Code)
		}
	}
}

func TestPlanHandler_Commit_InvalidBody(t *testing.T) {
	body := dto.CommitPlanRequest{Year: 2025, Month: 13}
	w := serve(setupPlanRouter(&mockPlanService{}), "PUT", "/plans/site-haupttor", jsonBody(body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_PlanCSV(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("Datum;Tag\n"), filename: "Einsatzplan_Haupttor_2025-03.csv"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/plan.csv", h.PlanCSV)
	w := serve(r, "GET", "/export/plan.csv?site_id=site-haupttor&year=2025&month=3", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.siteID != "site-haupttor" {
		t.Errorf("expected site id passed through, got %q", mock.siteID)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Einsatzplan_Haupttor_2025-03.csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

func TestExportHandler_PlanXLSX_MissingSite(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/export/plan.xlsx", h.PlanXLSX)
	w := serve(r, "GET", "/export/plan.xlsx?year=2025&month=3", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ReportXLSX_Failure(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail})

	r := gin.New()
	r.GET("/export/report.xlsx", h.ReportXLSX)
	w := serve(r, "GET", "/export/report.xlsx?year=2025&month=3", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestExportHandler_MyAssignmentsICS(t *testing.T) {
	staff := service.Session{UserID: "emp-max", Name: "Max Mustermann", Role: service.RoleStaff, EmployeeID: "emp-max"}
	mock := &mockExportService{buf: bytes.NewBufferString("BEGIN:VCALENDAR\r\n"), filename: "Dienstplan.ics"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/me/assignments.ics", withSession(staff), h.MyAssignmentsICS)
	w := serve(r, "GET", "/me/assignments.ics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.session.EmployeeID != "emp-max" {
		t.Errorf("session not passed through: %+v", mock.session)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected Content-Type %q", ct)
	}
}

func TestExportHandler_MyAssignmentsICS_AdminWithoutEmployee(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrNoEmployeeIdentity})

	r := gin.New()
	r.GET("/me/assignments.ics", withSession(adminSession), h.MyAssignmentsICS)
	w := serve(r, "GET", "/me/assignments.ics", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11004 {
		t.Errorf("expected code 11004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	cases := []struct {
		db, cache  Pinger
		wantStatus int
	}{
		{ok, nil, http.StatusOK},
		{ok, down, http.StatusOK},
		{down, ok, http.StatusServiceUnavailable},
	}
	for i, c := range cases {
		r := gin.New()
		r.GET("/health", NewHealthHandler(c.db, c.cache).Health)
		if w := serve(r, "GET", "/health", nil); w.Code != c.wantStatus {
			t.Errorf("case %d: expected %d, got %d", i, c.wantStatus, w.Code)
		}
	}
}
