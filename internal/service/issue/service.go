package issue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/organization"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/database"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
)

type IssueServiceImpl struct {
	tx database.Transactor
	issue.IssueRepository
	organization.OrganizationRepository
	user.UserRepository
	templates  setting.TemplateRepository
	vocabulary setting.VocabularyRepository
	now        func() time.Time
}

func NewIssueService(
	tx database.Transactor,
	issueRepo issue.IssueRepository,
	organizationRepo organization.OrganizationRepository,
	userRepo user.UserRepository,
	templateRepo setting.TemplateRepository,
	vocabularyRepo setting.VocabularyRepository,
	now func() time.Time,
) issue.IssueService {
	if now == nil {
		now = time.Now
	}
	return &IssueServiceImpl{
		tx:                     tx,
		IssueRepository:        issueRepo,
		OrganizationRepository: organizationRepo,
		UserRepository:         userRepo,
		templates:              templateRepo,
		vocabulary:             vocabularyRepo,
		now:                    now,
	}
}

func claimsFrom(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	return claims, nil
}

func handlerClaims(ctx context.Context) (jwt.Claims, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !user.HasPermission(claims.Role, user.PermissionIssuesHandle) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// loadScoped fetches an issue in the caller's organization and enforces store scoping.
func (s *IssueServiceImpl) loadScoped(ctx context.Context, claims jwt.Claims, id string) (issue.Issue, error) {
	is, err := s.IssueRepository.GetByID(ctx, id, claims.OrganizationID)
	if err != nil {
		return issue.Issue{}, err
	}
	if claims.IsStoreScoped() {
		if is.Record == nil || is.Record.StoreID == nil || *is.Record.StoreID != *claims.StoreID {
			return issue.Issue{}, issue.ErrIssueAccessDenied
		}
	}
	return is, nil
}

func toLogResponse(l issue.Log) issue.LogResponse {
	resp := issue.LogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Action:    l.Action,
		Memo:      l.Memo,
		CreatedAt: l.CreatedAt,
	}
	if l.UserName != nil {
		resp.UserName = *l.UserName
	}
	return resp
}

func toIssueResponse(is issue.Issue) issue.IssueResponse {
	resp := issue.IssueResponse{
		ID:                 is.ID,
		AttendanceRecordID: is.AttendanceRecordID,
		Type:               is.Type,
		Severity:           is.Severity,
		Status:             is.Status,
		RuleDescription:    is.RuleDescription,
		DetectedAt:         is.DetectedAt,
		Logs:               make([]issue.LogResponse, 0, len(is.Logs)),
	}
	if rec := is.Record; rec != nil {
		resp.EmployeeID = rec.EmployeeID
		resp.Date = rec.Date.Format("2006-01-02")
		if rec.EmployeeName != nil {
			resp.EmployeeName = *rec.EmployeeName
		}
		if rec.StoreID != nil {
			resp.StoreID = *rec.StoreID
		}
		if rec.StoreName != nil {
			resp.StoreName = *rec.StoreName
		}
		recordResp := attendance.ToResponse(*rec)
		resp.AttendanceRecord = &recordResp
	}
	for _, l := range is.Logs {
		resp.Logs = append(resp.Logs, toLogResponse(l))
	}
	return resp
}

// ListIssues implements issue.IssueService. Store managers only see their store.
func (s *IssueServiceImpl) ListIssues(ctx context.Context, filter issue.IssueFilter) (issue.ListIssueResponse, error) {
	if err := filter.Validate(); err != nil {
		return issue.ListIssueResponse{}, err
	}
	claims, err := claimsFrom(ctx)
	if err != nil {
		return issue.ListIssueResponse{}, err
	}
	if claims.IsStoreScoped() {
		filter.StoreID = claims.StoreID
	}

	issues, total, err := s.IssueRepository.List(ctx, filter, claims.OrganizationID)
	if err != nil {
		return issue.ListIssueResponse{}, fmt.Errorf("failed to list issues: %w", err)
	}

	items := make([]issue.IssueResponse, 0, len(issues))
	for _, is := range issues {
		resp := toIssueResponse(is)
		resp.AttendanceRecord = nil
		items = append(items, resp)
	}

	return issue.ListIssueResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// GetIssue implements issue.IssueService.
func (s *IssueServiceImpl) GetIssue(ctx context.Context, id string) (issue.IssueResponse, error) {
	claims, err := claimsFrom(ctx)
	if err != nil {
		return issue.IssueResponse{}, err
	}
	is, err := s.loadScoped(ctx, claims, id)
	if err != nil {
		return issue.IssueResponse{}, err
	}

	logs, err := s.IssueRepository.ListLogs(ctx, is.ID)
	if err != nil {
		return issue.IssueResponse{}, fmt.Errorf("failed to list issue logs: %w", err)
	}
	is.Logs = logs
	return toIssueResponse(is), nil
}

// UpdateStatus implements issue.IssueService. A change of status is recorded
// in the issue log as status_change:<old>-><new>.
func (s *IssueServiceImpl) UpdateStatus(ctx context.Context, req issue.UpdateStatusRequest) (issue.IssueResponse, error) {
	if err := req.Validate(); err != nil {
		return issue.IssueResponse{}, err
	}
	claims, err := handlerClaims(ctx)
	if err != nil {
		return issue.IssueResponse{}, err
	}
	if _, err := s.loadScoped(ctx, claims, req.ID); err != nil {
		return issue.IssueResponse{}, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		old, err := s.IssueRepository.UpdateStatus(ctx, req.ID, req.Status)
		if err != nil {
			return err
		}
		if old == req.Status {
			return nil
		}
		_, err = s.IssueRepository.CreateLog(ctx, issue.Log{
			IssueID: req.ID,
			UserID:  claims.UserID,
			Action:  fmt.Sprintf("status_change:%s->%s", old, req.Status),
		})
		return err
	})
	if err != nil {
		return issue.IssueResponse{}, fmt.Errorf("failed to update issue status: %w", err)
	}

	return s.GetIssue(ctx, req.ID)
}

// AddLog implements issue.IssueService.
func (s *IssueServiceImpl) AddLog(ctx context.Context, req issue.AddLogRequest) (issue.LogResponse, error) {
	if err := req.Validate(); err != nil {
		return issue.LogResponse{}, err
	}
	claims, err := handlerClaims(ctx)
	if err != nil {
		return issue.LogResponse{}, err
	}
	if _, err := s.loadScoped(ctx, claims, req.IssueID); err != nil {
		return issue.LogResponse{}, err
	}

	created, err := s.IssueRepository.CreateLog(ctx, issue.Log{
		IssueID: req.IssueID,
		UserID:  claims.UserID,
		Action:  req.Action,
		Memo:    req.Memo,
	})
	if err != nil {
		return issue.LogResponse{}, fmt.Errorf("failed to create issue log: %w", err)
	}
	return toLogResponse(created), nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// GenerateReason implements issue.IssueService. Generation counts against the
// plan's monthly quota.
func (s *IssueServiceImpl) GenerateReason(ctx context.Context, req issue.GenerateReasonRequest) (issue.GenerateReasonResponse, error) {
	if err := req.Validate(); err != nil {
		return issue.GenerateReasonResponse{}, err
	}
	claims, err := handlerClaims(ctx)
	if err != nil {
		return issue.GenerateReasonResponse{}, err
	}
	is, err := s.loadScoped(ctx, claims, req.IssueID)
	if err != nil {
		return issue.GenerateReasonResponse{}, err
	}

	org, err := s.OrganizationRepository.GetByID(ctx, claims.OrganizationID)
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to get organization: %w", err)
	}
	now := s.now()
	used, err := s.IssueRepository.CountCorrectionReasonsSince(ctx, claims.OrganizationID, monthStart(now))
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to count generated reasons: %w", err)
	}
	if used >= org.Plan.Limits().ReasonGenerationsMonth {
		return issue.GenerateReasonResponse{}, issue.ErrReasonQuotaExceeded
	}

	handler, err := s.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to get handler: %w", err)
	}
	stored, err := s.templates.GetByType(ctx, claims.OrganizationID, req.TemplateType)
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to get template: %w", err)
	}
	vocabulary, err := s.vocabulary.ListByOrganization(ctx, claims.OrganizationID)
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to list vocabulary: %w", err)
	}

	text := RenderReason(
		templateText(stored, req.TemplateType),
		reasonValues(is, req, handler.Name, now),
		vocabulary,
	)

	var saved issue.CorrectionReason
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = s.IssueRepository.CreateCorrectionReason(ctx, issue.CorrectionReason{
			IssueID:       is.ID,
			TemplateType:  req.TemplateType,
			CauseCategory: req.CauseCategory,
			CauseDetail:   req.CauseDetail,
			ActionTaken:   req.ActionTaken,
			Prevention:    req.Prevention,
			GeneratedText: text,
			CreatedBy:     claims.UserID,
		})
		if err != nil {
			return err
		}
		_, err = s.IssueRepository.CreateLog(ctx, issue.Log{
			IssueID: is.ID,
			UserID:  claims.UserID,
			Action:  "reason_generated:" + string(req.TemplateType),
		})
		return err
	})
	if err != nil {
		return issue.GenerateReasonResponse{}, fmt.Errorf("failed to save correction reason: %w", err)
	}

	slog.Info("correction reason generated",
		"issue_id", is.ID,
		"template_type", req.TemplateType,
		"organization_id", claims.OrganizationID,
	)
	return issue.GenerateReasonResponse{ReasonID: saved.ID, GeneratedText: text}, nil
}
