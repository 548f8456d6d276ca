package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kintai-check/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/response"
)

// multipartOverhead leaves room for form fields and boundaries on top of the file limit.
const multipartOverhead = 1 << 20

type AttendanceHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	maxUploadBytes    int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, maxUploadBytes int64) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		maxUploadBytes:    maxUploadBytes,
	}
}

// parseUpload reads the multipart form and returns false after writing an error response.
func (h *attendanceHandlerImpl) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	if r.ContentLength > h.maxUploadBytes+multipartOverhead {
		response.HandleError(w, attendance.ErrFileTooLarge)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, attendance.ErrFileTooLarge)
			return false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return false
	}
	return true
}

// Preview implements AttendanceHandler.
func (h *attendanceHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}

	var req attendance.PreviewRequest
	file, fileHeader, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File, req.FileHeader = file, fileHeader
	}

	result, err := h.attendanceService.Preview(r.Context(), req)
	if err != nil {
		slog.Error("Preview service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upload implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.parseUpload(w, r) {
		return
	}

	req := attendance.ImportRequest{StoreID: r.FormValue("store_id")}
	file, fileHeader, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
		req.File, req.FileHeader = file, fileHeader
	}

	result, err := h.attendanceService.Import(r.Context(), req)
	if err != nil {
		slog.Error("Import service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{
		StoreID:    queryPtr(r, "store_id"),
		EmployeeID: queryPtr(r, "employee_id"),
		DateFrom:   queryPtr(r, "date_from"),
		DateTo:     queryPtr(r, "date_to"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}
