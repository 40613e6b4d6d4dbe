package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNote_DisplayTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Groceries", "Groceries"},
		{"  padded  ", "padded"},
		{"", "Untitled"},
		{"   ", "Untitled"},
	}

	for _, tt := range tests {
		n := &Note{Title: tt.title}
		assert.Equal(t, tt.want, n.DisplayTitle())
	}
}

func TestNote_CloneCopiesImageURI(t *testing.T) {
	uri := "file:///photo.jpg"
	n := &Note{ID: "n1", ImageURI: &uri}

	cp := n.Clone()
	*cp.ImageURI = "file:///other.jpg"

	assert.Equal(t, "file:///photo.jpg", *n.ImageURI)
	assert.Equal(t, "n1", cp.ID)
}

func TestUser_PublicOmitsPassword(t *testing.T) {
	u := &User{ID: "u1", Username: "alice", Password: "hash"}

	pub := u.Public()

	assert.Empty(t, pub.Password)
	assert.Equal(t, "hash", u.Password)
	assert.Nil(t, (*User)(nil).Public())
}
