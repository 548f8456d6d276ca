package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/organization"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/csvimport"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/metrics"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/sse"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/storage"
	"github.com/kintai-check/kintai-backend-go/internal/service/detection"
	"github.com/kintai-check/kintai-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgID  = "0190a5b2-0000-7000-8000-000000000001"
	storeA = "0190a5b2-0000-7000-8000-0000000000a1"
	storeB = "0190a5b2-0000-7000-8000-0000000000b1"
)

type uploadFile struct{ *bytes.Reader }

func (uploadFile) Close() error { return nil }

func upload(content string) (multipart.File, *multipart.FileHeader) {
	return uploadFile{bytes.NewReader([]byte(content))}, &multipart.FileHeader{Filename: "export.csv", Size: int64(len(content))}
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryStore struct {
	employees map[string]employee.Employee // code -> employee
	records   []attendance.Record
	findings  map[string][]issue.Finding
	plan      organization.Plan
	rules     map[string]setting.DetectionRule
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		employees: map[string]employee.Employee{},
		findings:  map[string][]issue.Finding{},
		plan:      organization.PlanFree,
		rules:     map[string]setting.DetectionRule{},
	}
}

// employee.EmployeeRepository
type employeeRepo struct{ m *memoryStore }

func (r employeeRepo) GetByCode(_ context.Context, _ string, code string) (employee.Employee, error) {
	e, ok := r.m.employees[code]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	e.ID = "emp-" + e.EmployeeCode
	r.m.employees[e.EmployeeCode] = e
	return e, nil
}

func (r employeeRepo) CountByOrganization(context.Context, string) (int, error) {
	return len(r.m.employees), nil
}

// attendance.AttendanceRepository
type recordRepo struct{ m *memoryStore }

func (r recordRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	rec.ID = fmt.Sprintf("rec-%d", len(r.m.records)+1)
	rec.ImportedAt = time.Now()
	r.m.records = append(r.m.records, rec)
	return rec, nil
}

func (r recordRepo) ExistsForEmployeeDate(_ context.Context, employeeID string, date time.Time) (bool, error) {
	for _, rec := range r.m.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r recordRepo) GetByID(context.Context, string, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r recordRepo) List(_ context.Context, f attendance.RecordFilter, _ string) ([]attendance.Record, int64, error) {
	return r.m.records, int64(len(r.m.records)), nil
}

// issue.IssueRepository; only CreateFindings is exercised by the import.
type issueRepo struct {
	issue.IssueRepository
	m *memoryStore
}

func (r issueRepo) CreateFindings(_ context.Context, recordID string, findings []issue.Finding) ([]issue.Issue, error) {
	r.m.findings[recordID] = findings
	return nil, nil
}

type orgRepo struct{ m *memoryStore }

func (r orgRepo) GetByID(_ context.Context, id string) (organization.Organization, error) {
	return organization.Organization{ID: id, Plan: r.m.plan}, nil
}

func (r orgRepo) ListIDs(context.Context) ([]string, error) { return []string{orgID}, nil }

type storeRepo struct{}

func (storeRepo) Create(context.Context, store.Store) (store.Store, error) { return store.Store{}, nil }

func (storeRepo) GetByID(_ context.Context, id, org string) (store.Store, error) {
	if id != storeA && id != storeB {
		return store.Store{}, store.ErrStoreNotFound
	}
	return store.Store{ID: id, OrganizationID: org}, nil
}

func (storeRepo) List(context.Context, string) ([]store.Store, error)      { return nil, nil }
func (storeRepo) Update(context.Context, store.Store) (store.Store, error) { return store.Store{}, nil }
func (storeRepo) Delete(context.Context, string, string) error             { return nil }

type ruleRepo struct{ m *memoryStore }

func (r ruleRepo) GetByOrganization(_ context.Context, org string) (setting.DetectionRule, error) {
	rule, ok := r.m.rules[org]
	if !ok {
		return setting.DetectionRule{}, setting.ErrRuleNotFound
	}
	return rule, nil
}

func (r ruleRepo) Upsert(_ context.Context, rule setting.DetectionRule) (setting.DetectionRule, error) {
	r.m.rules[rule.OrganizationID] = rule
	return rule, nil
}

func newService(t *testing.T, m *memoryStore) (attendance.AttendanceService, string) {
	dir := t.TempDir()
	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	return NewAttendanceService(Deps{
		Tx:          passthroughTx{},
		Attendance:  recordRepo{m},
		Employees:   employeeRepo{m},
		Orgs:        orgRepo{m},
		Stores:      storeRepo{},
		Issues:      issueRepo{m: m},
		Resolver:    detection.NewResolver(ruleRepo{m}, setting.DefaultPolicy()),
		FileService: file.NewFileService(local),
		Metrics:     metrics.New(),
	}), dir
}

func ctxAs(role user.Role, storeID *string) context.Context {
	return jwt.ContextWithClaims(context.Background(), jwt.Claims{
		UserID:         "user-1",
		OrganizationID: orgID,
		StoreID:        storeID,
		Role:           role,
	})
}

const exportCSV = "スタッフコード,スタッフ名,日付,出勤時刻,退勤時刻,休憩時間\n" +
	"1001,山田太郎,2024/01/05,09:00,23:30,60\n" +
	"1001,山田太郎,2024/01/05,09:00,18:00,60\n" +
	"1002,佐藤花子,2024/01/05,,21:00,60\n" +
	"1003,鈴木一郎,2024/01/05,09:00,17:00,60\n"

func TestImportDetectsAndSkipsDuplicates(t *testing.T) {
	m := newMemoryStore()
	svc, _ := newService(t, m)
	f, fh := upload(exportCSV)

	result, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.NoError(t, err)

	assert.Len(t, result.BatchID, 26)
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, 1, result.SkipCount)
	assert.Equal(t, 3, result.IssueCount)
	assert.Equal(t, "取り込みが完了しました（3件追加、1件は既存データのためスキップ）", result.Message)

	require.Len(t, m.records, 3)
	assert.Equal(t, result.BatchID, *m.records[0].ImportBatch)

	var types []issue.Type
	for _, f := range m.findings["rec-1"] {
		types = append(types, f.Type)
	}
	assert.Equal(t, []issue.Type{issue.TypeOvertime, issue.TypeNightWork}, types)
	require.Len(t, m.findings["rec-2"], 1)
	assert.Equal(t, issue.TypeMissingClockIn, m.findings["rec-2"][0].Type)
	assert.Empty(t, m.findings["rec-3"])

	assert.Equal(t, storeA, *m.employees["1002"].StoreID)
}

func TestImportUsesOrganizationPolicy(t *testing.T) {
	m := newMemoryStore()
	cfg := setting.DefaultPolicy()
	cfg.DailyHoursOvertimeAlert = 7
	m.rules[orgID] = setting.DetectionRule{OrganizationID: orgID, PolicyConfig: cfg}
	svc, _ := newService(t, m)
	f, fh := upload("employee_code,date,clock_in,clock_out,break_minutes\nA1,2024-01-05,09:00,17:00,60\n")

	result, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.NoError(t, err)
	assert.Equal(t, 1, result.IssueCount)
	assert.Equal(t, issue.TypeOvertime, m.findings["rec-1"][0].Type)
}

func TestImportSecondRunSkipsEverything(t *testing.T) {
	m := newMemoryStore()
	svc, _ := newService(t, m)

	for i := 0; i < 2; i++ {
		f, fh := upload(exportCSV)
		result, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
		require.NoError(t, err)
		if i == 1 {
			assert.Zero(t, result.RecordCount)
			assert.Equal(t, 4, result.SkipCount)
			assert.Zero(t, result.IssueCount)
			assert.Equal(t, "取り込みが完了しました（0件追加、4件は既存データのためスキップ）", result.Message)
		}
	}
	assert.Len(t, m.records, 3)
}

func TestImportEnforcesEmployeeLimit(t *testing.T) {
	m := newMemoryStore()
	for i := 0; i < organization.PlanFree.Limits().Employees; i++ {
		code := fmt.Sprintf("E%02d", i)
		m.employees[code] = employee.Employee{ID: "emp-" + code, EmployeeCode: code}
	}
	svc, _ := newService(t, m)
	f, fh := upload("employee_code,date\nNEW,2024-01-05\n")

	_, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	assert.ErrorIs(t, err, organization.ErrEmployeeLimitReached)
}

func TestImportStoreAccess(t *testing.T) {
	m := newMemoryStore()
	svc, _ := newService(t, m)
	own := storeA

	f, fh := upload(exportCSV)
	_, err := svc.Import(ctxAs(user.RoleStoreManager, &own), attendance.ImportRequest{StoreID: storeB, File: f, FileHeader: fh})
	assert.ErrorIs(t, err, attendance.ErrStoreAccessDenied)

	f, fh = upload(exportCSV)
	_, err = svc.Import(ctxAs(user.RoleViewer, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	f, fh = upload(exportCSV)
	_, err = svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: "0190a5b2-0000-7000-8000-0000000000c1", File: f, FileHeader: fh})
	assert.ErrorIs(t, err, store.ErrStoreNotFound)
}

func TestImportRejectsBadRowsWithoutWriting(t *testing.T) {
	m := newMemoryStore()
	svc, _ := newService(t, m)
	f, fh := upload("employee_code,date,clock_in\n1,2024-01-05,09:00\n2,yesterday,09:00\n")

	_, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.Error(t, err)
	assert.Empty(t, m.records)
}

func TestImportArchivesUpload(t *testing.T) {
	m := newMemoryStore()
	svc, dir := newService(t, m)
	f, fh := upload(exportCSV)

	result, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.NoError(t, err)

	local, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	exists, err := local.Exists(context.Background(), "imports/"+orgID+"/"+result.BatchID+".csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestImportPublishesCompletionEvent(t *testing.T) {
	m := newMemoryStore()
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(orgID)
	defer cleanup()

	svc := NewAttendanceService(Deps{
		Tx:         passthroughTx{},
		Attendance: recordRepo{m},
		Employees:  employeeRepo{m},
		Orgs:       orgRepo{m},
		Stores:     storeRepo{},
		Issues:     issueRepo{m: m},
		Resolver:   detection.NewResolver(ruleRepo{m}, setting.DefaultPolicy()),
		Events:     hub,
	})
	f, fh := upload(exportCSV)
	result, err := svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.NoError(t, err)

	require.Len(t, events, 1)
	ev := <-events
	assert.Equal(t, attendance.EventImportCompleted, ev.Name)
	data, ok := ev.Data.(attendance.ImportCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, result.BatchID, data.BatchID)
	assert.Equal(t, storeA, data.StoreID)
	assert.Equal(t, 3, data.IssueCount)
}

func TestPreview(t *testing.T) {
	svc, _ := newService(t, newMemoryStore())
	f, fh := upload(exportCSV)

	resp, err := svc.Preview(context.Background(), attendance.PreviewRequest{File: f, FileHeader: fh})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.RowCount)
	assert.Equal(t, csvimport.EncodingUTF8, resp.Encoding)
	assert.Contains(t, resp.Columns, "employee_code")
	assert.Len(t, resp.Preview, 4)

	f, fh = upload("name\nfoo\n")
	_, err = svc.Preview(context.Background(), attendance.PreviewRequest{File: f, FileHeader: fh})
	assert.True(t, errors.Is(err, attendance.ErrMissingRequiredColumns))
}

func TestListRecordsPagination(t *testing.T) {
	m := newMemoryStore()
	svc, _ := newService(t, m)

	resp, err := svc.ListRecords(ctxAs(user.RoleViewer, nil), attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", resp.Showing)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	f, fh := upload(exportCSV)
	_, err = svc.Import(ctxAs(user.RoleAdmin, nil), attendance.ImportRequest{StoreID: storeA, File: f, FileHeader: fh})
	require.NoError(t, err)

	resp, err = svc.ListRecords(ctxAs(user.RoleViewer, nil), attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, "1-3 of 3", resp.Showing)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Records, 3)
}
