package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/repository"
	"pocketnotes/pkg/hash"

	"github.com/google/uuid"
)

type SessionState string

const (
	StateUninitialized SessionState = "uninitialized"
	StateLoading       SessionState = "loading"
	StateReady         SessionState = "ready"
)

// SessionService holds the single signed-in user of this process and keeps
// the persisted snapshot in step with it.
type SessionService struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	logger   logging.Logger

	mu      sync.RWMutex
	state   SessionState
	current *domain.User

	now func() time.Time
}

func NewSessionService(accounts repository.AccountRepository, sessions repository.SessionRepository, logger logging.Logger) *SessionService {
	return &SessionService{
		accounts: accounts,
		sessions: sessions,
		logger:   logger.With("service", "session"),
		state:    StateUninitialized,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Load restores the persisted session. An unreadable snapshot is logged and
// the session starts signed out. The service is ready once Load returns.
func (s *SessionService) Load(ctx context.Context) {
	s.mu.Lock()
	s.state = StateLoading
	s.mu.Unlock()

	user, err := s.sessions.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to restore session", "error", err)
		user = nil
	}

	s.mu.Lock()
	s.current = user
	s.state = StateReady
	s.mu.Unlock()

	if user != nil {
		s.logger.Info(ctx, "session restored", "user_id", user.ID)
	}
}

func (s *SessionService) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns the signed-in user, or nil.
func (s *SessionService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *SessionService) Login(ctx context.Context, identifier, password string) (*domain.User, error) {
	if s.State() != StateReady {
		return nil, ErrSessionNotReady
	}

	user, err := s.accounts.Authenticate(ctx, identifier, password)
	if errors.Is(err, repository.ErrInvalidCredentials) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.activate(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user.Public(), nil
}

func (s *SessionService) SignUp(ctx context.Context, username, email, password string) (*domain.User, error) {
	if s.State() != StateReady {
		return nil, ErrSessionNotReady
	}

	if s.accounts.UsernameExists(ctx, username) {
		return nil, ErrUsernameTaken
	}
	if s.accounts.EmailExists(ctx, email) {
		return nil, ErrEmailTaken
	}

	hashed, err := hash.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: s.now(),
	}

	err = s.accounts.AddUser(ctx, user)
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return nil, ErrUsernameTaken
	case errors.Is(err, repository.ErrEmailTaken):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.activate(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return user.Public(), nil
}

// Logout always succeeds. A failure to remove the persisted snapshot is
// logged; the in-memory session is cleared regardless.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear persisted session", "error", err)
	}

	if prev != nil {
		s.logger.Info(ctx, "user logged out", "user_id", prev.ID)
	}
}

// activate persists the snapshot first so a failed write leaves the
// in-memory session untouched.
func (s *SessionService) activate(ctx context.Context, user *domain.User) error {
	snapshot := user.Public()
	if err := s.sessions.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
	return nil
}
