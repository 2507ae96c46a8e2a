package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ariatts/aria-api/internal/api/shared"
	"github.com/ariatts/aria-api/internal/config"
	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/generation"
	"github.com/ariatts/aria-api/internal/service"
	"github.com/ariatts/aria-api/internal/service/auth"
	"github.com/ariatts/aria-api/internal/store"
	"github.com/ariatts/aria-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth injects a fixed user ID into the request context, standing
// in for the JWT middleware.
func fakeAuth(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// fixedGenerator returns the same short PCM payload for every request.
type fixedGenerator struct {
	err error
}

func (g *fixedGenerator) GenerateSpeech(
	ctx context.Context,
	req generation.SpeechRequest,
) (*generation.SpeechResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &generation.SpeechResult{
		PCM:        []byte{1, 2, 3, 4, 5, 6, 7, 8},
		SampleRate: 24000,
		Channels:   1,
	}, nil
}

// memUserStore is an in-memory store.UserStore for handler tests.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (m *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// memSettingsStore is an in-memory store.SettingsStore.
type memSettingsStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.UserSettings
}

func newMemSettingsStore() *memSettingsStore {
	return &memSettingsStore{rows: make(map[uuid.UUID]*domain.UserSettings)}
}

func (m *memSettingsStore) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *settings
	m.rows[settings.UserID] = &copy
	return nil
}

func (m *memSettingsStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	copy := *row
	return &copy, nil
}

func (m *memSettingsStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[userID]; !ok {
		return store.ErrSettingsNotFound
	}
	delete(m.rows, userID)
	return nil
}

func (m *memSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore { return m }

const testEncryptionSecret = "0123456789abcdef0123456789abcdef"

func testSpeechConfig() config.SpeechConfig {
	return config.SpeechConfig{
		KeyEncryptionSecret: testEncryptionSecret,
		DefaultModel:        "gemini-2.5-flash-preview-tts",
		DefaultVoice:        "Kore",
	}
}

// jobTestEnv wires a job handler over a real queue and settings
// service backed by in-memory stores.
type jobTestEnv struct {
	userID   uuid.UUID
	queue    *task.JobQueue
	settings *service.SettingsService
	router   chi.Router
}

func newJobTestEnv(t *testing.T, gen generation.SpeechGenerator) *jobTestEnv {
	t.Helper()

	cipher, err := service.NewKeyCipher(testEncryptionSecret)
	require.NoError(t, err)
	settings, err := service.NewSettingsService(newMemSettingsStore(), cipher, testSpeechConfig(), testLogger())
	require.NoError(t, err)

	queue, err := task.NewJobQueue(gen, settings, testLogger(), task.QueueConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = queue.Close() })

	userID := uuid.New()

	// The generator needs a stored API key to run.
	_, err = settings.Save(context.Background(), userID, "test-api-key", "", "")
	require.NoError(t, err)

	handler := NewJobHandler(queue, settings)

	r := chi.NewRouter()
	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(fakeAuth(userID))
		r.Post("/", handler.CreateJob)
		r.Get("/", handler.ListJobs)
		r.Post("/process", handler.StartProcessing)
		r.Delete("/process", handler.StopProcessing)
		r.Get("/{id}", handler.GetJob)
		r.Delete("/{id}", handler.DeleteJob)
		r.Post("/{id}/regenerate", handler.RegenerateJob)
		r.Get("/{id}/audio", handler.GetJobAudio)
	})

	return &jobTestEnv{
		userID:   userID,
		queue:    queue,
		settings: settings,
		router:   r,
	}
}

// newAuthRouter wires the auth handler over a real user service backed
// by an in-memory store.
func newAuthRouter(t *testing.T) chi.Router {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	require.NoError(t, err)

	userService, err := service.NewUserService(
		newMemUserStore(),
		auth.NewBcryptHasher(bcrypt.MinCost),
		auth.NewBcryptVerifier(),
		jwtService,
		testLogger(),
	)
	require.NoError(t, err)

	handler := NewAuthHandler(userService)

	r := chi.NewRouter()
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	r.Post("/api/auth/refresh", handler.Refresh)
	return r
}
