package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ariatts/aria-api/internal/domain"
	"github.com/ariatts/aria-api/internal/service/auth"
	"github.com/ariatts/aria-api/internal/store"
)

// memoryUserStore is an in-memory store.UserStore for service tests.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memoryUserStore) Create(ctx context.Context, user *domain.User) error {
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

func (m *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
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

func (m *memoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (m *memoryUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

func (m *memoryUserStore) delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

// memorySettingsStore is an in-memory store.SettingsStore.
type memorySettingsStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.UserSettings
}

func newMemorySettingsStore() *memorySettingsStore {
	return &memorySettingsStore{rows: make(map[uuid.UUID]*domain.UserSettings)}
}

func (m *memorySettingsStore) Upsert(ctx context.Context, settings *domain.UserSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *settings
	m.rows[settings.UserID] = &copy
	return nil
}

func (m *memorySettingsStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	copy := *row
	return &copy, nil
}

func (m *memorySettingsStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[userID]; !ok {
		return store.ErrSettingsNotFound
	}
	delete(m.rows, userID)
	return nil
}

func (m *memorySettingsStore) WithTx(tx *sql.Tx) store.SettingsStore { return m }

// stubJWT issues recognizable fake tokens without real signing.
type stubJWT struct{}

func (s *stubJWT) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "access:" + userID.String(), nil
}

func (s *stubJWT) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "refresh:" + userID.String(), nil
}

func (s *stubJWT) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.parse(token, "access:")
}

func (s *stubJWT) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.parse(token, "refresh:")
	if err != nil {
		return nil, auth.ErrInvalidRefreshToken
	}
	return claims, nil
}

func (s *stubJWT) parse(token, prefix string) (*auth.Claims, error) {
	if !strings.HasPrefix(token, prefix) {
		return nil, auth.ErrInvalidToken
	}
	id, err := uuid.Parse(strings.TrimPrefix(token, prefix))
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: id, TokenType: strings.TrimSuffix(prefix, ":")}, nil
}
