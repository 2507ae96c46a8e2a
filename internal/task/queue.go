package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/audio"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/generation"
)

// DefaultMaxJobsPerUser caps how many jobs one user may hold in the
// queue at once.
const DefaultMaxJobsPerUser = 100

// QueueConfig holds configuration for the job queue.
type QueueConfig struct {
	// MaxJobsPerUser limits the number of jobs a single user can have
	// queued. Zero selects DefaultMaxJobsPerUser.
	MaxJobsPerUser int
}

// attempt is the immutable snapshot of a job taken when an attempt
// starts. Generation runs against the snapshot so the queue lock is
// never held across a provider call.
type attempt struct {
	jobID  uuid.UUID
	userID uuid.UUID
	prompt string
	voice  string
	model  string
}

// JobQueue is the in-memory job store and its single-consumer
// processor. Jobs live in submission order; automatic processing
// drains one user's pending jobs sequentially, with exactly one
// generation in flight for that user at any time. A per-job in-flight
// marker closes the race between the automatic drain and a manual
// regenerate so no job is ever generated twice concurrently.
type JobQueue struct {
	generator generation.SpeechGenerator
	creds     CredentialSource
	logger    *slog.Logger
	maxJobs   int

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	jobs     []*domain.Job
	index    map[uuid.UUID]*domain.Job
	inFlight map[uuid.UUID]struct{}
	closed   bool

	// processing maps a user to the token of the drain goroutine that
	// owns their queue. A stopped drain keeps running its current
	// attempt but loses ownership, so a restart cannot end up with two
	// drains claiming jobs for the same user.
	processing map[uuid.UUID]uint64
	drainSeq   uint64
}

// NewJobQueue creates a job queue backed by the given generator and
// credential source.
func NewJobQueue(
	generator generation.SpeechGenerator,
	creds CredentialSource,
	logger *slog.Logger,
	cfg QueueConfig,
) (*JobQueue, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if creds == nil {
		return nil, errors.New("credential source cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	maxJobs := cfg.MaxJobsPerUser
	if maxJobs <= 0 {
		maxJobs = DefaultMaxJobsPerUser
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &JobQueue{
		generator:  generator,
		creds:      creds,
		logger:     logger.With("component", "job_queue"),
		maxJobs:    maxJobs,
		baseCtx:    ctx,
		cancel:     cancel,
		index:      make(map[uuid.UUID]*domain.Job),
		inFlight:   make(map[uuid.UUID]struct{}),
		processing: make(map[uuid.UUID]uint64),
	}, nil
}

// Enqueue appends a pending job to the queue. Ownership of the job
// record passes to the queue. Enqueueing never starts processing;
// draining is an explicit, separate trigger.
func (q *JobQueue) Enqueue(job *domain.Job) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	if job.Status != domain.JobStatusPending {
		return fmt.Errorf("%w: only pending jobs can be enqueued", domain.ErrInvalidTransition)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if _, exists := q.index[job.ID]; exists {
		return fmt.Errorf("job %s already enqueued", job.ID)
	}

	count := 0
	for _, j := range q.jobs {
		if j.UserID == job.UserID {
			count++
		}
	}
	if count >= q.maxJobs {
		return ErrQueueFull
	}

	q.jobs = append(q.jobs, job)
	q.index[job.ID] = job
	return nil
}

// Jobs returns copies of the user's jobs in submission order.
func (q *JobQueue) Jobs(userID uuid.UUID) []*domain.Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*domain.Job
	for _, j := range q.jobs {
		if j.UserID == userID {
			out = append(out, copyJob(j))
		}
	}
	return out
}

// Get returns a copy of the job, or ErrJobNotFound when it does not
// exist or belongs to another user.
func (q *JobQueue) Get(userID, jobID uuid.UUID) (*domain.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, err := q.lookup(userID, jobID)
	if err != nil {
		return nil, err
	}
	return copyJob(job), nil
}

// Delete removes a job from the queue and releases its result clip, if
// any. A job may be deleted in any state; if its generation is still in
// flight, the late completion finds the job gone and discards the
// result.
func (q *JobQueue) Delete(userID, jobID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, err := q.lookup(userID, jobID)
	if err != nil {
		return err
	}

	q.removeLocked(jobID)
	if job.Result != nil {
		job.Result.Release()
	}
	return nil
}

// StartProcessing turns on automatic draining of the user's pending
// jobs. The drain runs on its own goroutine, picks pending jobs in
// submission order one at a time, and clears the processing flag when
// no pending job remains. Starting an already-processing queue is a
// no-op.
func (q *JobQueue) StartProcessing(userID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if q.processing[userID] != 0 {
		return nil
	}

	q.drainSeq++
	token := q.drainSeq
	q.processing[userID] = token
	q.wg.Add(1)
	go q.drain(userID, token)
	return nil
}

// StopProcessing clears the automatic processing flag. A generation
// already in flight runs to completion; no further pending job is
// picked up.
func (q *JobQueue) StopProcessing(userID uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.processing, userID)
}

// IsProcessing reports whether automatic draining is active for the
// user.
func (q *JobQueue) IsProcessing(userID uuid.UUID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing[userID] != 0
}

// Regenerate manually triggers generation of a single job. It works
// from pending and from both terminal states; a previous result clip
// is released before the job restarts. If the job is already
// generating, the trigger loses and ErrJobInFlight is returned.
func (q *JobQueue) Regenerate(userID, jobID uuid.UUID) error {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}

	job, err := q.lookup(userID, jobID)
	if err != nil {
		q.mu.Unlock()
		return err
	}

	if _, busy := q.inFlight[jobID]; busy || job.Status == domain.JobStatusGenerating {
		q.mu.Unlock()
		return ErrJobInFlight
	}

	if job.Result != nil {
		job.Result.Release()
	}
	if err := job.MarkGenerating(); err != nil {
		q.mu.Unlock()
		return err
	}
	q.inFlight[jobID] = struct{}{}
	att := snapshotAttempt(job)
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.runAttempt(q.baseCtx, att)
	}()
	return nil
}

// Close shuts the queue down: it stops all automatic processing,
// releases every result clip, drops all jobs, and waits for in-flight
// generations to finish. Their late results are discarded.
func (q *JobQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.processing = make(map[uuid.UUID]uint64)
	for _, job := range q.jobs {
		if job.Result != nil {
			job.Result.Release()
		}
	}
	q.jobs = nil
	q.index = make(map[uuid.UUID]*domain.Job)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	return nil
}

// drain sequentially processes the user's pending jobs until none is
// left or processing is stopped.
func (q *JobQueue) drain(userID uuid.UUID, token uint64) {
	defer q.wg.Done()

	for {
		att, ok := q.nextPending(userID, token)
		if !ok {
			return
		}
		q.runAttempt(q.baseCtx, att)
	}
}

// nextPending claims the first pending job for the user, transitioning
// it to generating and setting its in-flight marker under the lock.
// The claim only succeeds while the calling drain still owns the
// user's queue; when nothing is claimable the processing flag is
// cleared and false is reported.
func (q *JobQueue) nextPending(userID uuid.UUID, token uint64) (attempt, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.processing[userID] != token {
		return attempt{}, false
	}

	for _, job := range q.jobs {
		if job.UserID != userID || job.Status != domain.JobStatusPending {
			continue
		}
		if _, busy := q.inFlight[job.ID]; busy {
			continue
		}
		if err := job.MarkGenerating(); err != nil {
			q.logger.Error("failed to claim pending job",
				"job_id", job.ID,
				"error", err)
			continue
		}
		q.inFlight[job.ID] = struct{}{}
		return snapshotAttempt(job), true
	}

	delete(q.processing, userID)
	return attempt{}, false
}

// runAttempt executes one generation attempt against a snapshot and
// publishes the outcome back onto the job, if it still exists.
func (q *JobQueue) runAttempt(ctx context.Context, att attempt) {
	logger := q.logger.With("job_id", att.jobID, "user_id", att.userID)

	apiKey, err := q.creds.APIKey(ctx, att.userID)
	if err != nil {
		logger.Warn("credential lookup failed", "error", err)
		q.applyFailure(att.jobID, fmt.Sprintf("API key unavailable: %v", err))
		return
	}

	result, err := q.generator.GenerateSpeech(ctx, generation.SpeechRequest{
		Text:    att.prompt,
		VoiceID: att.voice,
		ModelID: att.model,
		APIKey:  apiKey,
	})
	if err != nil {
		q.applyFailure(att.jobID, err.Error())
		return
	}

	clip, err := audio.EncodeClip(result.PCM, result.SampleRate, result.Channels)
	if err != nil {
		logger.Warn("audio encoding failed", "error", err)
		q.applyFailure(att.jobID, fmt.Sprintf("audio encoding failed: %v", err))
		return
	}

	q.applySuccess(att.jobID, clip)
}

// applySuccess attaches the result clip to the job. If the job was
// deleted while the attempt ran, the clip is released immediately so
// completed work for a removed job leaves nothing behind.
func (q *JobQueue) applySuccess(jobID uuid.UUID, clip *audio.Clip) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.inFlight, jobID)

	job, ok := q.index[jobID]
	if !ok {
		clip.Release()
		q.logger.Debug("discarding result for removed job", "job_id", jobID)
		return
	}

	if err := job.MarkSuccess(clip); err != nil {
		clip.Release()
		q.logger.Error("failed to record job success",
			"job_id", jobID,
			"error", err)
		return
	}

	q.logger.Info("job succeeded",
		"job_id", jobID,
		"clip_bytes", clip.Len(),
		"duration", clip.Duration())
}

// applyFailure records a failed attempt with the provider's message
// kept verbatim. The failure kind is classified for logging only; it
// never changes how the job is handled.
func (q *JobQueue) applyFailure(jobID uuid.UUID, detail string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.inFlight, jobID)

	job, ok := q.index[jobID]
	if !ok {
		q.logger.Debug("discarding failure for removed job", "job_id", jobID)
		return
	}

	if err := job.MarkFailed(detail); err != nil {
		q.logger.Error("failed to record job failure",
			"job_id", jobID,
			"error", err)
		return
	}

	q.logger.Warn("job failed",
		"job_id", jobID,
		"failure_kind", generation.ClassifyFailure(detail),
		"detail", detail)
}

// lookup finds a job by ID scoped to its owner. Jobs of other users
// are reported as not found rather than forbidden.
func (q *JobQueue) lookup(userID, jobID uuid.UUID) (*domain.Job, error) {
	job, ok := q.index[jobID]
	if !ok || job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// removeLocked deletes the job from both the ordered list and the
// index. Callers hold q.mu.
func (q *JobQueue) removeLocked(jobID uuid.UUID) {
	delete(q.index, jobID)
	for i, j := range q.jobs {
		if j.ID == jobID {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			return
		}
	}
}

// copyJob returns a shallow copy so callers never observe fields
// mid-mutation. The Result pointer is shared on purpose: the clip is
// the resource handle and guards itself.
func copyJob(j *domain.Job) *domain.Job {
	c := *j
	return &c
}

// snapshotAttempt captures the generation parameters of a claimed job.
func snapshotAttempt(j *domain.Job) attempt {
	return attempt{
		jobID:  j.ID,
		userID: j.UserID,
		prompt: j.PromptText(),
		voice:  j.VoiceID,
		model:  j.ModelID,
	}
}
