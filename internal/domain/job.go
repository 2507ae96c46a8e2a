package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/audio"
)

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusGenerating JobStatus = "generating"
	JobStatusSuccess    JobStatus = "success"
	JobStatusError      JobStatus = "error"
)

// Common validation errors for Job
var (
	ErrEmptyJobID     = errors.New("job ID cannot be empty")
	ErrEmptyJobUserID = errors.New("job user ID cannot be empty")
	ErrEmptyJobText   = errors.New("job text cannot be empty")
	ErrEmptyJobVoice  = errors.New("job voice cannot be empty")
	ErrEmptyJobModel  = errors.New("job model cannot be empty")
	ErrInvalidJobStatus = errors.New("invalid job status")
)

// Job represents one text-to-speech generation request and its lifecycle
// state. The job record is owned by the queue processor: status, result
// and error detail are only ever mutated through the Mark* transitions,
// which keep the invariant that a result clip exists exactly when the
// status is success and an error detail exists exactly when it is error.
type Job struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	Text             string      `json:"text"`
	VoiceID          string      `json:"voice_id"`
	ModelID          string      `json:"model_id"`
	StyleInstruction string      `json:"style_instruction,omitempty"`
	Status           JobStatus   `json:"status"`
	ErrorDetail      string      `json:"error_detail,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// Result holds the playable audio clip for successful jobs. It is
	// owned by the job: whoever removes or replaces the job must release
	// it. Never serialized; clients fetch audio through a dedicated
	// endpoint instead.
	Result *audio.Clip `json:"-"`
}

// NewJob creates a new pending Job for the given user and generation
// parameters. It assigns a fresh UUID and creation timestamp.
// Returns an error if validation fails.
func NewJob(userID uuid.UUID, text, voiceID, modelID, styleInstruction string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:               uuid.New(),
		UserID:           userID,
		Text:             text,
		VoiceID:          voiceID,
		ModelID:          modelID,
		StyleInstruction: styleInstruction,
		Status:           JobStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
// Returns an error if any field fails validation.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.UserID == uuid.Nil {
		return ErrEmptyJobUserID
	}

	if j.Text == "" {
		return ErrEmptyJobText
	}

	if j.VoiceID == "" {
		return ErrEmptyJobVoice
	}

	if j.ModelID == "" {
		return ErrEmptyJobModel
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	return nil
}

// PromptText returns the text to send to the generation capability: the
// style instruction, when present, prefixed to the payload and separated
// from it by a newline.
func (j *Job) PromptText() string {
	if j.StyleInstruction == "" {
		return j.Text
	}
	return j.StyleInstruction + "\n" + j.Text
}

// MarkGenerating transitions the job into the generating state. Allowed
// from pending (picked up by the processor) and from both terminal
// states (manual regenerate). The caller must release any previous
// result clip before calling; this method only clears the references.
func (j *Job) MarkGenerating() error {
	if err := j.checkTransition(JobStatusGenerating); err != nil {
		return err
	}
	j.Status = JobStatusGenerating
	j.Result = nil
	j.ErrorDetail = ""
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkSuccess transitions a generating job to success and attaches the
// result clip. The clip's ownership passes to the job.
func (j *Job) MarkSuccess(clip *audio.Clip) error {
	if clip == nil {
		return errors.New("result clip cannot be nil")
	}
	if err := j.checkTransition(JobStatusSuccess); err != nil {
		return err
	}
	j.Status = JobStatusSuccess
	j.Result = clip
	j.ErrorDetail = ""
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions a generating job to the error state with a
// human-readable detail message.
func (j *Job) MarkFailed(detail string) error {
	if detail == "" {
		detail = "generation failed"
	}
	if err := j.checkTransition(JobStatusError); err != nil {
		return err
	}
	j.Status = JobStatusError
	j.Result = nil
	j.ErrorDetail = detail
	j.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTerminal reports whether the job is in a state the automatic
// processor will not pick up again.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusError
}

// checkTransition validates a status change against the allowed edges.
func (j *Job) checkTransition(to JobStatus) error {
	if !isValidJobTransition(j.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, to)
	}
	return nil
}

// isValidJobTransition enforces the allowed job state machine edges.
func isValidJobTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusPending:
		return to == JobStatusGenerating
	case JobStatusGenerating:
		return to == JobStatusSuccess || to == JobStatusError
	case JobStatusSuccess, JobStatusError:
		// Manual regenerate restarts a finished job.
		return to == JobStatusGenerating
	default:
		return false
	}
}

// isValidJobStatus checks if the given status is a valid JobStatus.
func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusGenerating, JobStatusSuccess, JobStatusError:
		return true
	default:
		return false
	}
}
