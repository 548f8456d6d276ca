package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kintai-check/kintai-backend-go/internal/domain/report"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// Generate implements ReportHandler. The report is returned as a file attachment.
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req report.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("GenerateReport decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	f, err := h.reportService.Generate(r.Context(), req)
	if err != nil {
		slog.Error("GenerateReport service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, f.Filename, f.ContentType, f.Content)
}
