package handler

import (
	"encoding/json"
	"net/http"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/middleware"
	"pocketnotes/internal/query"
	"pocketnotes/internal/service"
	"pocketnotes/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
	logger   logging.Logger
}

func NewNoteHandler(service *service.NoteService, logger logging.Logger) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("handler", "notes"),
	}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Invalid(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.logger.Error(r.Context(), "failed to create note", "user_id", userID, "error", err)
		response.Internal(w, "Failed to create note")
		return
	}

	response.Created(w, note)
}

// List serves the displayed list: ?q= filters, ?sort= orders (newest when
// omitted).
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	mode, err := query.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		response.Invalid(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	response.OK(w, h.service.List(r.Context(), userID, r.URL.Query().Get("q"), mode))
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.Invalid(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Get(r.Context(), userID, noteID)
	if err != nil {
		h.logger.Error(r.Context(), "failed to load note", "user_id", userID, "note_id", noteID, "error", err)
		response.Internal(w, "Failed to load note")
		return
	}
	if note == nil {
		response.NotFound(w, "Note not found")
		return
	}

	response.OK(w, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.Invalid(w, "Note ID is required")
		return
	}

	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Invalid(w, "Invalid request payload")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Invalid(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	note, err := h.service.Update(r.Context(), userID, noteID, &req)
	if err != nil {
		h.logger.Error(r.Context(), "failed to update note", "user_id", userID, "note_id", noteID, "error", err)
		response.Internal(w, "Failed to update note")
		return
	}
	if note == nil {
		response.NotFound(w, "Note not found")
		return
	}

	response.OK(w, note)
}

// Delete succeeds whether or not the note existed.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["id"]
	if noteID == "" {
		response.Invalid(w, "Note ID is required")
		return
	}

	userID := middleware.GetUserID(r)

	if err := h.service.Delete(r.Context(), userID, noteID); err != nil {
		h.logger.Error(r.Context(), "failed to delete note", "user_id", userID, "note_id", noteID, "error", err)
		response.Internal(w, "Failed to delete note")
		return
	}

	response.OK(w, map[string]string{"message": "Note deleted successfully"})
}
