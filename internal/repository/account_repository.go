package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/store"
	"pocketnotes/pkg/hash"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
)

type AccountRepository interface {
	ListUsers(ctx context.Context) []*domain.User
	AddUser(ctx context.Context, user *domain.User) error
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) bool
	EmailExists(ctx context.Context, email string) bool
}

type accountRepository struct {
	kv     store.Store
	logger logging.Logger

	// mu makes the uniqueness check and the append in AddUser one step.
	mu sync.Mutex
}

func NewAccountRepository(kv store.Store, logger logging.Logger) AccountRepository {
	return &accountRepository{
		kv:     kv,
		logger: logger.With("repository", "accounts"),
	}
}

// ListUsers never fails: an unreadable user list is logged and reported as
// empty.
func (r *accountRepository) ListUsers(ctx context.Context) []*domain.User {
	users, err := loadList[*domain.User](ctx, r.kv, UsersKey)
	if err != nil {
		r.logger.Error(ctx, "failed to read users, treating as empty", "error", err)
		return []*domain.User{}
	}
	return users
}

// AddUser appends user unless its username or email is already stored, in
// which case ErrUsernameTaken or ErrEmailTaken is returned. Username is
// checked first.
func (r *accountRepository) AddUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := loadList[*domain.User](ctx, r.kv, UsersKey)
	if err != nil {
		return fmt.Errorf("failed to read users: %w", err)
	}

	for _, u := range users {
		if u.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	for _, u := range users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}

	users = append(users, user)

	if err := saveList(ctx, r.kv, UsersKey, users); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	r.logger.Info(ctx, "user added", "user_id", user.ID)
	return nil
}

// Authenticate returns the first user, in stored order, whose username or
// email equals identifier and whose password verifies.
func (r *accountRepository) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	for _, u := range r.ListUsers(ctx) {
		if u.Username != identifier && u.Email != identifier {
			continue
		}
		if hash.Compare(u.Password, password) == nil {
			return u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (r *accountRepository) UsernameExists(ctx context.Context, username string) bool {
	for _, u := range r.ListUsers(ctx) {
		if u.Username == username {
			return true
		}
	}
	return false
}

func (r *accountRepository) EmailExists(ctx context.Context, email string) bool {
	for _, u := range r.ListUsers(ctx) {
		if u.Email == email {
			return true
		}
	}
	return false
}
