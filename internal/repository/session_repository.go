package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/store"
)

// SessionRepository persists the snapshot of the signed-in user.
type SessionRepository interface {
	// Load returns nil, nil when nobody is signed in.
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	kv store.Store
}

func NewSessionRepository(kv store.Store) SessionRepository {
	return &sessionRepository{kv: kv}
}

func (r *sessionRepository) Load(ctx context.Context) (*domain.User, error) {
	raw, found, err := r.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("failed to decode session: snapshot has no user id")
	}

	return &user, nil
}

func (r *sessionRepository) Save(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.kv.Set(ctx, CurrentUserKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
