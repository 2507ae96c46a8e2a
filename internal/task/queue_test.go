package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/generation"
)

const waitTimeout = 2 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubGenerator is a controllable generation.SpeechGenerator. Each call
// is recorded; the optional gate makes calls block until released so
// tests can observe the queue mid-flight.
type stubGenerator struct {
	mu    sync.Mutex
	calls []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	started chan string
	gate    chan struct{}

	generate func(req generation.SpeechRequest) (*generation.SpeechResult, error)
}

func (s *stubGenerator) GenerateSpeech(
	ctx context.Context,
	req generation.SpeechRequest,
) (*generation.SpeechResult, error) {
	cur := s.inFlight.Add(1)
	for {
		max := s.maxInFlight.Load()
		if cur <= max || s.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	defer s.inFlight.Add(-1)

	s.mu.Lock()
	s.calls = append(s.calls, req.Text)
	s.mu.Unlock()

	if s.started != nil {
		s.started <- req.Text
	}
	if s.gate != nil {
		<-s.gate
	}

	if s.generate != nil {
		return s.generate(req)
	}
	return &generation.SpeechResult{
		PCM:        []byte{1, 2, 3, 4},
		SampleRate: 24000,
		Channels:   1,
	}, nil
}

func (s *stubGenerator) callOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// stubCreds returns a fixed API key, or an error when set.
type stubCreds struct {
	key string
	err error
}

func (s *stubCreds) APIKey(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.key, nil
}

func newTestQueue(t *testing.T, gen generation.SpeechGenerator) *JobQueue {
	t.Helper()
	q, err := NewJobQueue(gen, &stubCreds{key: "test-key"}, discardLogger(), QueueConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func newTestJob(t *testing.T, userID uuid.UUID, text string) *domain.Job {
	t.Helper()
	job, err := domain.NewJob(userID, text, "Kore", "gemini-2.5-flash-preview-tts", "")
	require.NoError(t, err)
	return job
}

func waitForStatus(t *testing.T, q *JobQueue, userID, jobID uuid.UUID, want domain.JobStatus) *domain.Job {
	t.Helper()
	var job *domain.Job
	require.Eventually(t, func() bool {
		j, err := q.Get(userID, jobID)
		if err != nil {
			return false
		}
		job = j
		return j.Status == want
	}, waitTimeout, 5*time.Millisecond)
	return job
}

func TestNewJobQueueValidatesDependencies(t *testing.T) {
	gen := &stubGenerator{}
	creds := &stubCreds{key: "k"}
	logger := discardLogger()

	_, err := NewJobQueue(nil, creds, logger, QueueConfig{})
	assert.Error(t, err)

	_, err = NewJobQueue(gen, nil, logger, QueueConfig{})
	assert.Error(t, err)

	_, err = NewJobQueue(gen, creds, nil, QueueConfig{})
	assert.Error(t, err)
}

func TestEnqueueAndList(t *testing.T) {
	q := newTestQueue(t, &stubGenerator{})
	userID := uuid.New()

	first := newTestJob(t, userID, "first")
	second := newTestJob(t, userID, "second")
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))

	jobs := q.Jobs(userID)
	require.Len(t, jobs, 2)
	assert.Equal(t, "first", jobs[0].Text)
	assert.Equal(t, "second", jobs[1].Text)
	assert.Equal(t, domain.JobStatusPending, jobs[0].Status)

	// Enqueueing never starts processing on its own.
	assert.False(t, q.IsProcessing(userID))
}

func TestEnqueueRejectsDuplicateAndNonPending(t *testing.T) {
	q := newTestQueue(t, &stubGenerator{})
	job := newTestJob(t, uuid.New(), "hello")

	require.NoError(t, q.Enqueue(job))
	assert.Error(t, q.Enqueue(job))

	done := newTestJob(t, uuid.New(), "hello")
	require.NoError(t, done.MarkGenerating())
	assert.ErrorIs(t, q.Enqueue(done), domain.ErrInvalidTransition)
}

func TestEnqueueQueueFull(t *testing.T) {
	gen := &stubGenerator{}
	q, err := NewJobQueue(gen, &stubCreds{key: "k"}, discardLogger(), QueueConfig{MaxJobsPerUser: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	userID := uuid.New()
	require.NoError(t, q.Enqueue(newTestJob(t, userID, "one")))
	assert.ErrorIs(t, q.Enqueue(newTestJob(t, userID, "two")), ErrQueueFull)

	// The cap is per user, not global.
	assert.NoError(t, q.Enqueue(newTestJob(t, uuid.New(), "other user")))
}

func TestJobsAreScopedToUser(t *testing.T) {
	q := newTestQueue(t, &stubGenerator{})
	alice := uuid.New()
	bob := uuid.New()

	aliceJob := newTestJob(t, alice, "for alice")
	require.NoError(t, q.Enqueue(aliceJob))
	require.NoError(t, q.Enqueue(newTestJob(t, bob, "for bob")))

	jobs := q.Jobs(alice)
	require.Len(t, jobs, 1)
	assert.Equal(t, "for alice", jobs[0].Text)

	_, err := q.Get(bob, aliceJob.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, q.Delete(bob, aliceJob.ID), ErrJobNotFound)
	assert.ErrorIs(t, q.Regenerate(bob, aliceJob.ID), ErrJobNotFound)
}

func TestProcessingDrainsInSubmissionOrder(t *testing.T) {
	gen := &stubGenerator{}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	texts := []string{"alpha", "beta", "gamma"}
	ids := make([]uuid.UUID, 0, len(texts))
	for _, text := range texts {
		job := newTestJob(t, userID, text)
		require.NoError(t, q.Enqueue(job))
		ids = append(ids, job.ID)
	}

	require.NoError(t, q.StartProcessing(userID))

	for _, id := range ids {
		job := waitForStatus(t, q, userID, id, domain.JobStatusSuccess)
		require.NotNil(t, job.Result)
		assert.Empty(t, job.ErrorDetail)
	}

	assert.Equal(t, texts, gen.callOrder())

	// Queue drained, processing flag cleared on its own.
	require.Eventually(t, func() bool {
		return !q.IsProcessing(userID)
	}, waitTimeout, 5*time.Millisecond)
}

func TestProcessingNeverRunsTwoGenerationsAtOnce(t *testing.T) {
	gen := &stubGenerator{
		generate: func(req generation.SpeechRequest) (*generation.SpeechResult, error) {
			time.Sleep(3 * time.Millisecond)
			return &generation.SpeechResult{PCM: []byte{0, 0}, SampleRate: 24000, Channels: 1}, nil
		},
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	ids := make([]uuid.UUID, 0, 6)
	for i := 0; i < 6; i++ {
		job := newTestJob(t, userID, "job")
		require.NoError(t, q.Enqueue(job))
		ids = append(ids, job.ID)
	}

	require.NoError(t, q.StartProcessing(userID))
	// A second start while draining is a no-op, not a second consumer.
	require.NoError(t, q.StartProcessing(userID))

	for _, id := range ids {
		waitForStatus(t, q, userID, id, domain.JobStatusSuccess)
	}

	assert.Equal(t, int32(1), gen.maxInFlight.Load())
}

func TestStopProcessingHaltsDrain(t *testing.T) {
	gen := &stubGenerator{
		started: make(chan string),
		gate:    make(chan struct{}),
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	first := newTestJob(t, userID, "first")
	second := newTestJob(t, userID, "second")
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(second))

	require.NoError(t, q.StartProcessing(userID))
	<-gen.started

	// Stop while the first generation is in flight; it completes, the
	// second is never picked up.
	q.StopProcessing(userID)
	close(gen.gate)

	waitForStatus(t, q, userID, first.ID, domain.JobStatusSuccess)
	require.Eventually(t, func() bool {
		return !q.IsProcessing(userID)
	}, waitTimeout, 5*time.Millisecond)

	job, err := q.Get(userID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.Equal(t, []string{"first"}, gen.callOrder())
}

func TestFailureKeepsProviderMessageVerbatim(t *testing.T) {
	detail := "generation failed: RESOURCE_EXHAUSTED: quota exceeded for metric"
	gen := &stubGenerator{
		generate: func(req generation.SpeechRequest) (*generation.SpeechResult, error) {
			return nil, errors.New(detail)
		},
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "over quota")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	failed := waitForStatus(t, q, userID, job.ID, domain.JobStatusError)
	assert.Equal(t, detail, failed.ErrorDetail)
	assert.Nil(t, failed.Result)
}

func TestFailureDoesNotStopTheDrain(t *testing.T) {
	gen := &stubGenerator{
		generate: func(req generation.SpeechRequest) (*generation.SpeechResult, error) {
			if req.Text == "bad" {
				return nil, errors.New("generation failed: INTERNAL")
			}
			return &generation.SpeechResult{PCM: []byte{1, 2}, SampleRate: 24000, Channels: 1}, nil
		},
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	bad := newTestJob(t, userID, "bad")
	good := newTestJob(t, userID, "good")
	require.NoError(t, q.Enqueue(bad))
	require.NoError(t, q.Enqueue(good))

	require.NoError(t, q.StartProcessing(userID))

	waitForStatus(t, q, userID, bad.ID, domain.JobStatusError)
	waitForStatus(t, q, userID, good.ID, domain.JobStatusSuccess)
}

func TestEncodingFailureFailsTheJob(t *testing.T) {
	gen := &stubGenerator{
		generate: func(req generation.SpeechRequest) (*generation.SpeechResult, error) {
			return &generation.SpeechResult{PCM: nil, SampleRate: 24000, Channels: 1}, nil
		},
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "no audio")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	failed := waitForStatus(t, q, userID, job.ID, domain.JobStatusError)
	assert.Contains(t, failed.ErrorDetail, "audio encoding failed")
}

func TestCredentialFailureFailsTheJob(t *testing.T) {
	gen := &stubGenerator{}
	q, err := NewJobQueue(gen, &stubCreds{err: errors.New("no API key configured")}, discardLogger(), QueueConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = q.Close() })

	userID := uuid.New()
	job := newTestJob(t, userID, "hello")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	failed := waitForStatus(t, q, userID, job.ID, domain.JobStatusError)
	assert.Contains(t, failed.ErrorDetail, "API key unavailable")
	assert.Empty(t, gen.callOrder())
}

func TestRegenerateReleasesPreviousClip(t *testing.T) {
	gen := &stubGenerator{}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "again")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	first := waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)
	firstClip := first.Result
	require.NotNil(t, firstClip)
	require.False(t, firstClip.Released())

	require.NoError(t, q.Regenerate(userID, job.ID))

	second := waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)
	require.NotNil(t, second.Result)

	assert.True(t, firstClip.Released())
	assert.NotSame(t, firstClip, second.Result)
	assert.False(t, second.Result.Released())
}

func TestRegenerateFromErrorState(t *testing.T) {
	failNext := atomic.Bool{}
	failNext.Store(true)
	gen := &stubGenerator{
		generate: func(req generation.SpeechRequest) (*generation.SpeechResult, error) {
			if failNext.Load() {
				return nil, errors.New("generation failed: UNAVAILABLE")
			}
			return &generation.SpeechResult{PCM: []byte{1, 2}, SampleRate: 24000, Channels: 1}, nil
		},
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "flaky")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))
	waitForStatus(t, q, userID, job.ID, domain.JobStatusError)

	failNext.Store(false)
	require.NoError(t, q.Regenerate(userID, job.ID))

	done := waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)
	assert.Empty(t, done.ErrorDetail)
	require.NotNil(t, done.Result)
}

func TestRegenerateWhileInFlightLosesTheRace(t *testing.T) {
	gen := &stubGenerator{
		started: make(chan string),
		gate:    make(chan struct{}),
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "busy")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))
	<-gen.started

	assert.ErrorIs(t, q.Regenerate(userID, job.ID), ErrJobInFlight)

	close(gen.gate)
	waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)

	// Exactly one generation ran.
	assert.Equal(t, []string{"busy"}, gen.callOrder())
}

func TestDeleteReleasesResultClip(t *testing.T) {
	gen := &stubGenerator{}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "done then gone")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	done := waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)
	clip := done.Result
	require.NotNil(t, clip)

	require.NoError(t, q.Delete(userID, job.ID))
	assert.True(t, clip.Released())

	_, err := q.Get(userID, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestDeleteDuringFlightDropsLateResult(t *testing.T) {
	gen := &stubGenerator{
		started: make(chan string),
		gate:    make(chan struct{}),
	}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "delete me")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))
	<-gen.started

	// Delete while the generation is running; the late completion must
	// not resurrect the job.
	require.NoError(t, q.Delete(userID, job.ID))
	close(gen.gate)

	require.Eventually(t, func() bool {
		return !q.IsProcessing(userID)
	}, waitTimeout, 5*time.Millisecond)

	_, err := q.Get(userID, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Empty(t, q.Jobs(userID))
}

func TestCloseReleasesEverything(t *testing.T) {
	gen := &stubGenerator{}
	q := newTestQueue(t, gen)
	userID := uuid.New()

	job := newTestJob(t, userID, "short lived")
	require.NoError(t, q.Enqueue(job))
	require.NoError(t, q.StartProcessing(userID))

	done := waitForStatus(t, q, userID, job.ID, domain.JobStatusSuccess)
	clip := done.Result
	require.NotNil(t, clip)

	require.NoError(t, q.Close())
	assert.True(t, clip.Released())

	assert.ErrorIs(t, q.Enqueue(newTestJob(t, userID, "too late")), ErrQueueClosed)
	assert.ErrorIs(t, q.StartProcessing(userID), ErrQueueClosed)
	assert.ErrorIs(t, q.Regenerate(userID, job.ID), ErrQueueClosed)

	// Close is idempotent.
	assert.NoError(t, q.Close())
}
