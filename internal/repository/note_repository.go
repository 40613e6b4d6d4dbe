package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/store"

	"github.com/google/uuid"
)

// NoteRepository stores one note collection per user under NotesKey(userID).
// Every mutation rewrites the whole collection.
type NoteRepository interface {
	List(ctx context.Context, userID string) []*domain.Note
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	Create(ctx context.Context, userID string, req *domain.CreateNoteRequest) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type noteRepository struct {
	kv     store.Store
	logger logging.Logger

	// mu serialises read-modify-write cycles on collections.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

func NewNoteRepository(kv store.Store, logger logging.Logger) NoteRepository {
	return &noteRepository{
		kv:     kv,
		logger: logger.With("repository", "notes"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// List never fails: an unreadable collection is logged and reported as empty.
func (r *noteRepository) List(ctx context.Context, userID string) []*domain.Note {
	notes, err := loadList[*domain.Note](ctx, r.kv, NotesKey(userID))
	if err != nil {
		r.logger.Error(ctx, "failed to read notes, treating as empty", "user_id", userID, "error", err)
		return []*domain.Note{}
	}
	return notes
}

// Get returns nil, nil when the note does not exist.
func (r *noteRepository) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	notes, err := loadList[*domain.Note](ctx, r.kv, NotesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	if i := indexOf(notes, noteID); i >= 0 {
		return notes[i], nil
	}
	return nil, nil
}

func (r *noteRepository) Create(ctx context.Context, userID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NotesKey(userID)
	notes, err := loadList[*domain.Note](ctx, r.kv, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	now := r.now()
	note := &domain.Note{
		ID:        r.uniqueID(notes),
		Title:     req.Title,
		Body:      req.Body,
		ImageURI:  imageURI(req.ImageURI),
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes = append(notes, note)
	if err := saveList(ctx, r.kv, key, notes); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note.Clone(), nil
}

// Update merges the non-nil fields of req into the note and refreshes
// UpdatedAt. It returns nil, nil when the note does not exist.
func (r *noteRepository) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NotesKey(userID)
	notes, err := loadList[*domain.Note](ctx, r.kv, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	i := indexOf(notes, noteID)
	if i < 0 {
		return nil, nil
	}

	note := notes[i]
	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Body != nil {
		note.Body = *req.Body
	}
	if req.ImageURI != nil {
		note.ImageURI = imageURI(req.ImageURI)
	}

	// UpdatedAt must not move backwards when the wall clock does.
	now := r.now()
	if now.Before(note.UpdatedAt) {
		now = note.UpdatedAt
	}
	note.UpdatedAt = now

	if err := saveList(ctx, r.kv, key, notes); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note.Clone(), nil
}

// Delete removes the note if present. Deleting a missing note is a no-op and
// writes nothing.
func (r *noteRepository) Delete(ctx context.Context, userID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NotesKey(userID)
	notes, err := loadList[*domain.Note](ctx, r.kv, key)
	if err != nil {
		return fmt.Errorf("failed to read notes: %w", err)
	}

	i := indexOf(notes, noteID)
	if i < 0 {
		return nil
	}

	notes = append(notes[:i], notes[i+1:]...)
	if err := saveList(ctx, r.kv, key, notes); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func (r *noteRepository) uniqueID(notes []*domain.Note) string {
	for {
		id := r.newID()
		if indexOf(notes, id) < 0 {
			return id
		}
	}
}

func indexOf(notes []*domain.Note, noteID string) int {
	for i, n := range notes {
		if n.ID == noteID {
			return i
		}
	}
	return -1
}

// imageURI normalises an optional image reference: nil and "" both mean no
// image.
func imageURI(uri *string) *string {
	if uri == nil || *uri == "" {
		return nil
	}
	v := *uri
	return &v
}
