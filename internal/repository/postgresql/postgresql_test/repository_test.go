package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	applied, err := postgresql.Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestAttendanceAndFindings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orgID := insertOrganization(t, db, "テスト株式会社", "pro")

	orgs := postgresql.NewOrganizationRepository(db)
	org, err := orgs.GetByID(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, "テスト株式会社", org.Name)

	st, err := postgresql.NewStoreRepository(db).Create(ctx, store.Store{OrganizationID: orgID, Code: "S01", Name: "渋谷店"})
	require.NoError(t, err)

	employees := postgresql.NewEmployeeRepository(db)
	emp, err := employees.Create(ctx, employee.Employee{OrganizationID: orgID, StoreID: &st.ID, EmployeeCode: "1001", Name: "山田太郎"})
	require.NoError(t, err)

	_, err = employees.GetByCode(ctx, orgID, "9999")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	count, err := employees.CountByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records := postgresql.NewAttendanceRepository(db)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	in, out, brk := attendance.NewClock(9, 0, 0), attendance.NewClock(23, 30, 0), 60
	rec, err := records.Create(ctx, attendance.Record{EmployeeID: emp.ID, Date: date, ClockIn: &in, ClockOut: &out, BreakMinutes: &brk})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	exists, err := records.ExistsForEmployeeDate(ctx, emp.ID, date)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = records.Create(ctx, attendance.Record{EmployeeID: emp.ID, Date: date, ClockIn: &in})
	assert.ErrorIs(t, err, attendance.ErrRecordAlreadyExists)

	issues := postgresql.NewIssueRepository(db)
	created, err := issues.CreateFindings(ctx, rec.ID, []issue.Finding{
		{Type: issue.TypeOvertime, Severity: issue.SeverityMedium, RuleDescription: "overtime"},
		{Type: issue.TypeNightWork, Severity: issue.SeverityLow, RuleDescription: "night"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, issue.StatusPending, created[0].Status)

	prev, err := issues.UpdateStatus(ctx, created[0].ID, issue.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusPending, prev)

	loaded, err := issues.GetByID(ctx, created[0].ID, orgID)
	require.NoError(t, err)
	assert.Equal(t, issue.StatusInProgress, loaded.Status)
}

func TestTransactorRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orgID := insertOrganization(t, db, "Rollback Inc", "free")

	employees := postgresql.NewEmployeeRepository(db)
	boom := errors.New("boom")
	err := postgresql.NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		if _, err := employees.Create(ctx, employee.Employee{OrganizationID: orgID, EmployeeCode: "1001", Name: "A"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := employees.CountByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRuleRepositoryUpsert(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	orgID := insertOrganization(t, db, "Rules Inc", "free")
	rules := postgresql.NewRuleRepository(db)

	_, err := rules.GetByOrganization(ctx, orgID)
	assert.ErrorIs(t, err, setting.ErrRuleNotFound)

	policy := setting.DefaultPolicy()
	policy.DailyHoursOvertimeAlert = 12
	_, err = rules.Upsert(ctx, setting.DetectionRule{OrganizationID: orgID, PolicyConfig: policy})
	require.NoError(t, err)

	policy.NightStartHour = 23
	_, err = rules.Upsert(ctx, setting.DetectionRule{OrganizationID: orgID, PolicyConfig: policy})
	require.NoError(t, err)

	got, err := rules.GetByOrganization(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, policy, got.PolicyConfig)
}

func TestTokenRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	tokens := postgresql.NewTokenRepository(db)
	now := time.Now()

	require.NoError(t, tokens.Revoke(ctx, "expired-token", now.Add(-time.Minute)))
	require.NoError(t, tokens.Revoke(ctx, "live-token", now.Add(time.Hour)))
	require.NoError(t, tokens.Revoke(ctx, "live-token", now.Add(time.Hour)))

	revoked, err := tokens.IsRevoked(ctx, "live-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	removed, err := tokens.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err = tokens.IsRevoked(ctx, "expired-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}
