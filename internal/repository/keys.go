package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pocketnotes/internal/store"
)

// Storage layout. Values are JSON documents.
const (
	UsersKey       = "users"
	CurrentUserKey = "currentUser"
	notesKeyPrefix = "notes_"
)

// NotesKey is the key holding the note collection of userID.
func NotesKey(userID string) string {
	return notesKeyPrefix + userID
}

// loadList reads and decodes the JSON array under key. An absent key is an
// empty list.
func loadList[T any](ctx context.Context, kv store.Store, key string) ([]T, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	items := []T{}
	if !found || raw == "" {
		return items, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

func saveList[T any](ctx context.Context, kv store.Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	return kv.Set(ctx, key, string(data))
}
