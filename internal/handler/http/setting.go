package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kintai-check/kintai-backend-go/internal/domain/setting"
	"github.com/kintai-check/kintai-backend-go/internal/handler/http/response"
)

type SettingHandler interface {
	GetRules(w http.ResponseWriter, r *http.Request)
	UpdateRules(w http.ResponseWriter, r *http.Request)
	GetTemplates(w http.ResponseWriter, r *http.Request)
	UpdateTemplates(w http.ResponseWriter, r *http.Request)
	GetDictionary(w http.ResponseWriter, r *http.Request)
	UpdateDictionary(w http.ResponseWriter, r *http.Request)
}

type settingHandlerImpl struct {
	settingService setting.SettingService
}

func NewSettingHandler(settingService setting.SettingService) SettingHandler {
	return &settingHandlerImpl{settingService: settingService}
}

// GetRules implements SettingHandler.
func (h *settingHandlerImpl) GetRules(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.GetRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateRules implements SettingHandler.
func (h *settingHandlerImpl) UpdateRules(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateRulesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRules decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.UpdateRules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Detection rules updated successfully", result)
}

// GetTemplates implements SettingHandler.
func (h *settingHandlerImpl) GetTemplates(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.GetTemplates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateTemplates implements SettingHandler.
func (h *settingHandlerImpl) UpdateTemplates(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateTemplatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateTemplates decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.UpdateTemplates(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Templates updated successfully", result)
}

// GetDictionary implements SettingHandler.
func (h *settingHandlerImpl) GetDictionary(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.GetDictionary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateDictionary implements SettingHandler.
func (h *settingHandlerImpl) UpdateDictionary(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateDictionaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateDictionary decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.settingService.UpdateDictionary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Dictionary updated successfully", result)
}
