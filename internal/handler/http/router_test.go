package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "correct-horse" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (fakeAuth) RefreshToken(context.Context, auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
}

func (fakeAuth) Logout(context.Context, auth.RefreshTokenRequest) error { return nil }

type fakeAttendance struct {
	imported attendance.ImportRequest
	err      error
}

func (f *fakeAttendance) Preview(context.Context, attendance.PreviewRequest) (attendance.PreviewResponse, error) {
	return attendance.PreviewResponse{}, f.err
}

func (f *fakeAttendance) Import(_ context.Context, req attendance.ImportRequest) (attendance.ImportResult, error) {
	if f.err != nil {
		return attendance.ImportResult{}, f.err
	}
	f.imported = req
	return attendance.ImportResult{BatchID: "01HX", RecordCount: 2, Message: "取り込みが完了しました（2件追加）"}, nil
}

func (f *fakeAttendance) ListRecords(context.Context, attendance.RecordFilter) (attendance.ListRecordResponse, error) {
	return attendance.ListRecordResponse{Page: 1, Limit: 20, Showing: "0 of 0"}, nil
}

type fakeIssues struct{ issue.IssueService }

func (fakeIssues) ListIssues(_ context.Context, f issue.IssueFilter) (issue.ListIssueResponse, error) {
	if err := f.Validate(); err != nil {
		return issue.ListIssueResponse{}, err
	}
	return issue.ListIssueResponse{Page: f.Page, PageSize: f.PageSize}, nil
}

func (fakeIssues) GetIssue(context.Context, string) (issue.IssueResponse, error) {
	return issue.IssueResponse{}, issue.ErrIssueNotFound
}

type fakeSettings struct{ setting.SettingService }

func (fakeSettings) GetRules(context.Context) (setting.PolicyConfig, error) {
	return setting.DefaultPolicy(), nil
}

type fakeReports struct{}

func (fakeReports) Generate(context.Context, report.GenerateReportRequest) (report.File, error) {
	return report.File{Filename: "anomaly-report-2024-01.csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a,b\n")}, nil
}

func (fakeReports) Archive(context.Context, string, time.Time) (bool, error) { return false, nil }

type fakeStores struct{ store.StoreService }

type testServer struct {
	router     http.Handler
	jwt        *jwt.JWTService
	attendance *fakeAttendance
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, 24*time.Hour)
	att := &fakeAttendance{}
	router := NewRouter(jwtService, Handlers{
		Auth:       NewAuthHandler(fakeAuth{}),
		Attendance: NewAttendanceHandler(att, 1024),
		Issue:      NewIssueHandler(fakeIssues{}),
		Setting:    NewSettingHandler(fakeSettings{}),
		Report:     NewReportHandler(fakeReports{}),
		Store:      NewStoreHandler(fakeStores{}),
	}, RouterOptions{Metrics: metrics.New(), RateLimiter: limiter})
	return &testServer{router: router, jwt: jwtService, attendance: att}
}

func (s *testServer) token(t *testing.T, role user.Role) string {
	tok, _, err := s.jwt.GenerateAccessToken(user.User{
		ID:             "0190a5b2-0000-7000-8000-00000000f001",
		OrganizationID: "0190a5b2-0000-7000-8000-000000000001",
		Email:          "user@example.com",
		Role:           role,
	})
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func multipartBody(t *testing.T, fields map[string]string, content string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"correct-horse"}`)), "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"wrong"}`)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`)), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"x"}`)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t, middleware.NewRateLimiter(0.001, 2))

	var codes []int
	for i := 0; i < 3; i++ {
		rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"correct-horse"}`)), "")
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestProtectedRoutesRequireAccessToken(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	refresh, _, err := s.jwt.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil), refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues?page=2&page_size=5", nil), s.token(t, user.RoleViewer))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["page"])
	assert.Equal(t, float64(5), data["page_size"])
}

func TestIssueErrors(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues?status=done", nil), s.token(t, user.RoleViewer))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues/0190a5b2-0000-7000-8000-00000000aaaa", nil), s.token(t, user.RoleViewer))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodPut, "/api/v1/issues/0190a5b2-0000-7000-8000-00000000aaaa", strings.NewReader(`{"status":"completed"}`)), s.token(t, user.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/settings/rules", nil), s.token(t, user.RoleStoreManager))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["daily_work_hours_alert"])

	rec = s.do(httptest.NewRequest(http.MethodPut, "/api/v1/settings/rules", strings.NewReader(`{}`)), s.token(t, user.RoleStoreManager))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, nil)
	body, contentType := multipartBody(t, map[string]string{"store_id": "0190a5b2-0000-7000-8000-0000000000a1"}, "employee_code,date\n1,2024-01-05\n")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := s.do(req, s.token(t, user.RoleAdmin))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "取り込みが完了しました（2件追加）", resp["message"])
	assert.Equal(t, "0190a5b2-0000-7000-8000-0000000000a1", s.attendance.imported.StoreID)
	assert.Equal(t, "export.csv", s.attendance.imported.FileHeader.Filename)
}

func TestUploadPermissionsAndLimits(t *testing.T) {
	s := newTestServer(t, nil)

	body, contentType := multipartBody(t, nil, "employee_code,date\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := s.do(req, s.token(t, user.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	s.attendance.err = attendance.ErrFileTooLarge
	body, contentType = multipartBody(t, nil, "employee_code,date\n")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/attendance/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec = s.do(req, s.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	s.attendance.err = nil
	body, contentType = multipartBody(t, nil, strings.Repeat("x", 3<<20))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/attendance/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec = s.do(req, s.token(t, user.RoleAdmin))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestReportAttachment(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"month":"2024-01","format":"csv"}`)), s.token(t, user.RoleStoreManager))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="anomaly-report-2024-01.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(`{"month":"2024-01"}`)), s.token(t, user.RoleViewer))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil), "")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
