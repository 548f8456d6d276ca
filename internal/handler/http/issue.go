package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kintai-check/kintai-backend-go/internal/domain/issue"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/response"
)

type IssueHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	AddLog(w http.ResponseWriter, r *http.Request)
	GenerateReason(w http.ResponseWriter, r *http.Request)
}

type issueHandlerImpl struct {
	issueService issue.IssueService
}

func NewIssueHandler(issueService issue.IssueService) IssueHandler {
	return &issueHandlerImpl{issueService: issueService}
}

// List implements IssueHandler.
func (h *issueHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := issue.IssueFilter{
		StoreID:    queryPtr(r, "store_id"),
		EmployeeID: queryPtr(r, "employee_id"),
		Type:       queryPtr(r, "type"),
		Severity:   queryPtr(r, "severity"),
		Status:     queryPtr(r, "status"),
		DateFrom:   queryPtr(r, "date_from"),
		DateTo:     queryPtr(r, "date_to"),
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "page_size"),
	}

	result, err := h.issueService.ListIssues(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements IssueHandler.
func (h *issueHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.issueService.GetIssue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements IssueHandler.
func (h *issueHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req issue.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.issueService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Issue updated successfully", result)
}

// AddLog implements IssueHandler.
func (h *issueHandlerImpl) AddLog(w http.ResponseWriter, r *http.Request) {
	var req issue.AddLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddLog decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.IssueID = chi.URLParam(r, "id")

	result, err := h.issueService.AddLog(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Log added successfully", result)
}

// GenerateReason implements IssueHandler.
func (h *issueHandlerImpl) GenerateReason(w http.ResponseWriter, r *http.Request) {
	var req issue.GenerateReasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateReason decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.IssueID = chi.URLParam(r, "id")

	result, err := h.issueService.GenerateReason(r.Context(), req)
	if err != nil {
		slog.Error("GenerateReason service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reason generated successfully", result)
}
