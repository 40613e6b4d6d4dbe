package service

import (
	"context"
	"strings"
	"time"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/query"
	"pocketnotes/internal/repository"
	"pocketnotes/internal/websocket"
)

// Broadcaster delivers a message to every live connection of a user except
// excludeClientID.
type Broadcaster interface {
	BroadcastToUser(userID string, msg *websocket.Message, excludeClientID string) error
}

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

type NoteService struct {
	repo        repository.NoteRepository
	broadcaster Broadcaster
	logger      logging.Logger
}

// NewNoteService builds the service. broadcaster may be nil, in which case
// no change notifications are sent.
func NewNoteService(repo repository.NoteRepository, broadcaster Broadcaster, logger logging.Logger) *NoteService {
	return &NoteService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger.With("service", "notes"),
	}
}

// List returns the user's notes filtered by q and ordered by mode.
func (s *NoteService) List(ctx context.Context, userID, q string, mode query.SortMode) []*domain.Note {
	return query.Project(s.repo.List(ctx, userID), q, mode)
}

func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.repo.Get(ctx, userID, noteID)
}

func (s *NoteService) Create(ctx context.Context, userID string, req *domain.CreateNoteRequest) (*domain.Note, error) {
	in := *req
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)

	note, err := s.repo.Create(ctx, userID, &in)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID, note.ID, OperationCreate, note.UpdatedAt)
	return note, nil
}

// Update returns nil, nil when the note does not exist.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	in := *req
	in.Title = trimmed(in.Title)
	in.Body = trimmed(in.Body)

	note, err := s.repo.Update(ctx, userID, noteID, &in)
	if err != nil || note == nil {
		return note, err
	}

	s.notify(ctx, userID, note.ID, OperationUpdate, note.UpdatedAt)
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.repo.Delete(ctx, userID, noteID); err != nil {
		return err
	}

	s.notify(ctx, userID, noteID, OperationDelete, time.Now().UTC())
	return nil
}

func (s *NoteService) notify(ctx context.Context, userID, noteID, operation string, at time.Time) {
	if s.broadcaster == nil {
		return
	}

	msg, err := websocket.NewMessage(websocket.TypeNotesChanged, &websocket.NotesChangedPayload{
		NoteID:    noteID,
		Operation: operation,
		UpdatedAt: at,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to build change notification", "error", err)
		return
	}

	if err := s.broadcaster.BroadcastToUser(userID, msg, ""); err != nil {
		s.logger.Warn(ctx, "failed to broadcast change notification", "user_id", userID, "error", err)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
