package api

import (
	"net/http"

	"github.com/ariatts/aria-api/internal/api/shared"
	"github.com/ariatts/aria-api/internal/domain"
)

// VoiceCatalogResponse lists the prebuilt voices and speech models a
// client can pick from.
type VoiceCatalogResponse struct {
	Voices []domain.Voice `json:"voices"`
	Models []string       `json:"models"`
}

// VoiceHandler serves the static voice catalog.
type VoiceHandler struct{}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler() *VoiceHandler {
	return &VoiceHandler{}
}

// ListVoices handles GET /api/voices requests.
func (h *VoiceHandler) ListVoices(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, VoiceCatalogResponse{
		Voices: domain.PrebuiltVoices,
		Models: domain.SpeechModels,
	})
}
