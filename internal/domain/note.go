package domain

import (
	"strings"
	"time"
)

// UntitledTitle is shown, and sorted, in place of a blank title.
const UntitledTitle = "Untitled"

// Note belongs to exactly one user through the storage key it lives under;
// it carries no owner field of its own.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ImageURI  *string   `json:"imageUri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	return UntitledTitle
}

func (n *Note) Clone() *Note {
	cp := *n
	if n.ImageURI != nil {
		uri := *n.ImageURI
		cp.ImageURI = &uri
	}
	return &cp
}

type CreateNoteRequest struct {
	Title    string  `json:"title" validate:"max=1000"`
	Body     string  `json:"body"`
	ImageURI *string `json:"imageUri" validate:"omitempty,max=4096"`
}

// UpdateNoteRequest is a partial update: nil fields are left untouched. An
// ImageURI pointing at "" removes the attached image.
type UpdateNoteRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=1000"`
	Body     *string `json:"body"`
	ImageURI *string `json:"imageUri" validate:"omitempty,max=4096"`
}
