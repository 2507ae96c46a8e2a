package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ariatts/aria-api/internal/api/middleware"
	"github.com/ariatts/aria-api/internal/api/shared"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/service"
)

// UpdateSettingsRequest represents the request body for saving
// settings. An empty APIKey keeps the key already stored.
type UpdateSettingsRequest struct {
	APIKey         string `json:"api_key,omitempty"`
	DefaultVoiceID string `json:"default_voice_id,omitempty"`
	DefaultModelID string `json:"default_model_id,omitempty"`
}

// SettingsResponse represents the response data for user settings. The
// API key itself is never returned, only whether one is stored.
type SettingsResponse struct {
	HasAPIKey      bool      `json:"has_api_key"`
	DefaultVoiceID string    `json:"default_voice_id"`
	DefaultModelID string    `json:"default_model_id"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// SettingsHandler handles settings-related HTTP requests.
type SettingsHandler struct {
	settings  *service.SettingsService
	validator *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings:  settings,
		validator: validator.New(),
	}
}

// GetSettings handles GET /api/settings requests.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	settings, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// UpdateSettings handles PUT /api/settings requests.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	settings, err := h.settings.Save(r.Context(), userID, req.APIKey, req.DefaultVoiceID, req.DefaultModelID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settingsToResponse(settings))
}

// DeleteSettings handles DELETE /api/settings requests, forgetting the
// stored API key and preferences.
func (h *SettingsHandler) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.settings.Delete(r.Context(), userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// settingsToResponse converts domain.UserSettings to a
// SettingsResponse.
func settingsToResponse(settings *domain.UserSettings) SettingsResponse {
	return SettingsResponse{
		HasAPIKey:      settings.HasAPIKey(),
		DefaultVoiceID: settings.DefaultVoiceID,
		DefaultModelID: settings.DefaultModelID,
		UpdatedAt:      settings.UpdatedAt,
	}
}
