package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/domain/auth"
	"github.com/kintai-check/kintai-backend-go/internal/domain/employee"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/domain/organization"
	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/domain/store"
	"github.com/kintai-check/kintai-backend-go/internal/domain/user"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/jwt"
	"github.com/kintai-check/kintai-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrTooManyRequests):
		TooManyRequests(w, "Too many requests, please retry later")

	// User domain errors
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, organization.ErrEmployeeLimitReached):
		Forbidden(w, err.Error())

	// Store domain errors
	case errors.Is(err, store.ErrStoreNotFound):
		NotFound(w, "Store not found")
	case errors.Is(err, store.ErrStoreCodeExists):
		Conflict(w, "Store code already exists")
	case errors.Is(err, store.ErrStoreHasRecords):
		Conflict(w, "Store still has employees assigned")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrFileTooLarge):
		PayloadTooLarge(w, err.Error())
	case errors.Is(err, attendance.ErrTooManyRows),
		errors.Is(err, attendance.ErrMissingRequiredColumns),
		errors.Is(err, attendance.ErrMalformedCSV),
		errors.Is(err, attendance.ErrFileRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrStoreAccessDenied),
		errors.Is(err, report.ErrStoreAccessDenied):
		Forbidden(w, "No access to the specified store")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordAlreadyExists):
		Conflict(w, err.Error())

	// Issue domain errors
	case errors.Is(err, issue.ErrIssueNotFound):
		NotFound(w, "Issue not found")
	case errors.Is(err, issue.ErrIssueAccessDenied):
		Forbidden(w, "No access to this issue")
	case errors.Is(err, issue.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, issue.ErrReasonQuotaExceeded):
		TooManyRequests(w, err.Error())

	// Setting and report domain errors
	case errors.Is(err, setting.ErrInvalidTemplateType),
		errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
