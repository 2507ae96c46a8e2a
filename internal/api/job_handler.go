package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/api/middleware"
	"github.com/ariatts/aria-api/internal/api/shared"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/generation"
	"github.com/ariatts/aria-api/internal/service"
	"github.com/ariatts/aria-api/internal/task"
)

// CreateJobRequest represents the request body for submitting a new
// generation job. Voice and model are optional; the user's saved
// preferences, then the server defaults, fill the gaps.
type CreateJobRequest struct {
	Text             string `json:"text" validate:"required,min=1"`
	VoiceID          string `json:"voice_id,omitempty"`
	ModelID          string `json:"model_id,omitempty"`
	StyleInstruction string `json:"style_instruction,omitempty"`
}

// JobResponse represents the response data for a job. FailureKind is a
// presentation-only classification of the error detail; it never
// affects how the job is handled.
type JobResponse struct {
	ID               string    `json:"id"`
	Text             string    `json:"text"`
	VoiceID          string    `json:"voice_id"`
	ModelID          string    `json:"model_id"`
	StyleInstruction string    `json:"style_instruction,omitempty"`
	Status           string    `json:"status"`
	ErrorDetail      string    `json:"error_detail,omitempty"`
	FailureKind      string    `json:"failure_kind,omitempty"`
	HasAudio         bool      `json:"has_audio"`
	AudioDurationMS  int64     `json:"audio_duration_ms,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProcessingResponse reports the automatic-processing state.
type ProcessingResponse struct {
	Processing bool `json:"processing"`
}

// JobHandler handles job-related HTTP requests.
type JobHandler struct {
	queue     *task.JobQueue
	settings  *service.SettingsService
	validator *validator.Validate
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(queue *task.JobQueue, settings *service.SettingsService) *JobHandler {
	return &JobHandler{
		queue:     queue,
		settings:  settings,
		validator: validator.New(),
	}
}

// CreateJob handles POST /api/jobs requests. The job is enqueued as
// pending; nothing generates until processing is triggered.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateJobRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	voiceID, modelID, err := h.settings.JobDefaults(r.Context(), userID, req.VoiceID, req.ModelID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if !domain.IsKnownVoice(voiceID) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown voice")
		return
	}
	if !domain.IsKnownModel(modelID) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown model")
		return
	}

	job, err := domain.NewJob(userID, req.Text, voiceID, modelID, req.StyleInstruction)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.queue.Enqueue(job); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, jobToResponse(job))
}

// ListJobs handles GET /api/jobs requests. Jobs are returned newest
// first.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	jobs := h.queue.Jobs(userID)
	responses := make([]JobResponse, 0, len(jobs))
	for i := len(jobs) - 1; i >= 0; i-- {
		responses = append(responses, jobToResponse(jobs[i]))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetJob handles GET /api/jobs/{id} requests.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	job, err := h.queue.Get(userID, jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// DeleteJob handles DELETE /api/jobs/{id} requests. Deleting releases
// the job's audio clip; a generation still in flight is discarded on
// completion.
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	if err := h.queue.Delete(userID, jobID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegenerateJob handles POST /api/jobs/{id}/regenerate requests.
func (h *JobHandler) RegenerateJob(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	if err := h.queue.Regenerate(userID, jobID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, ProcessingResponse{Processing: true})
}

// StartProcessing handles POST /api/jobs/process requests: it turns on
// the automatic drain of the caller's pending jobs.
func (h *JobHandler) StartProcessing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.queue.StartProcessing(userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, ProcessingResponse{Processing: true})
}

// StopProcessing handles DELETE /api/jobs/process requests. A
// generation already in flight completes; no further job is picked up.
func (h *JobHandler) StopProcessing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	h.queue.StopProcessing(userID)
	shared.RespondWithJSON(w, r, http.StatusOK, ProcessingResponse{Processing: false})
}

// GetJobAudio handles GET /api/jobs/{id}/audio requests, streaming the
// encoded WAV for a successful job.
func (h *JobHandler) GetJobAudio(w http.ResponseWriter, r *http.Request) {
	userID, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	job, err := h.queue.Get(userID, jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if job.Status != domain.JobStatusSuccess || job.Result == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Audio not available")
		return
	}

	data, err := job.Result.Bytes()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", job.Result.MIMEType())
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "speech-"+job.ID.String()+".wav"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// The client went away mid-download; nothing to send anymore.
		return
	}
}

// jobRequest extracts the authenticated user and the job ID path
// parameter, writing the error response itself on failure.
func (h *JobHandler) jobRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, uuid.Nil, false
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, jobID, true
}

// jobToResponse converts a domain.Job to a JobResponse.
func jobToResponse(job *domain.Job) JobResponse {
	resp := JobResponse{
		ID:               job.ID.String(),
		Text:             job.Text,
		VoiceID:          job.VoiceID,
		ModelID:          job.ModelID,
		StyleInstruction: job.StyleInstruction,
		Status:           string(job.Status),
		ErrorDetail:      job.ErrorDetail,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}

	if job.Status == domain.JobStatusError && job.ErrorDetail != "" {
		resp.FailureKind = string(generation.ClassifyFailure(job.ErrorDetail))
	}

	if job.Result != nil && !job.Result.Released() {
		resp.HasAudio = true
		resp.AudioDurationMS = job.Result.Duration().Milliseconds()
	}

	return resp
}
