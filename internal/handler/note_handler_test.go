package handler

import (
	"net/http"
	"testing"

	"pocketnotes/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteHandler_Scenario(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice", "alice@x.com", "pw1")

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": "bob", "email": "alice@x.com", "password": "pw2"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email already exists", env.reason())

	rec, env = s.do(t, http.MethodPost, "/api/v1/notes", alice.AccessToken, map[string]string{"title": "Groceries", "body": "milk, eggs"})
	require.Equal(t, http.StatusCreated, rec.Code)
	groceries := decodeData[domain.Note](t, env)

	_, env = s.do(t, http.MethodGet, "/api/v1/notes?q=milk", alice.AccessToken, nil)
	milk := decodeData[[]domain.Note](t, env)
	require.Len(t, milk, 1)
	assert.Equal(t, groceries.ID, milk[0].ID)

	_, env = s.do(t, http.MethodGet, "/api/v1/notes?q=bread", alice.AccessToken, nil)
	assert.Empty(t, decodeData[[]domain.Note](t, env))
}

func TestNoteHandler_ListSort(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice", "alice@x.com", "pw1")

	for _, title := range []string{"banana", "", "Apple"} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/notes", alice.AccessToken, map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env := s.do(t, http.MethodGet, "/api/v1/notes?sort=title_asc", alice.AccessToken, nil)
	notes := decodeData[[]domain.Note](t, env)
	require.Len(t, notes, 3)
	assert.Equal(t, []string{"Apple", "banana", ""}, []string{notes[0].Title, notes[1].Title, notes[2].Title})

	rec, env := s.do(t, http.MethodGet, "/api/v1/notes?sort=random", alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.reason(), "unknown sort mode")
}

func TestNoteHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	alice := s.signUp(t, "alice", "alice@x.com", "pw1")
	token := alice.AccessToken

	rec, env := s.do(t, http.MethodPost, "/api/v1/notes", token, map[string]string{"title": " Draft ", "body": "text", "imageUri": "file:///photo.jpg"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeData[domain.Note](t, env)
	assert.Equal(t, "Draft", created.Title)
	require.NotNil(t, created.ImageURI)

	rec, env = s.do(t, http.MethodGet, "/api/v1/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeData[domain.Note](t, env).ID)

	rec, env = s.do(t, http.MethodPut, "/api/v1/notes/"+created.ID, token, map[string]string{"body": "final", "imageUri": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[domain.Note](t, env)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "final", updated.Body)
	assert.Nil(t, updated.ImageURI)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "deleting a missing note succeeds")

	rec, _ = s.do(t, http.MethodGet, "/api/v1/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/notes/"+created.ID, token, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteHandler_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	s.signUp(t, "alice", "alice@x.com", "pw1")

	rec, env := s.do(t, http.MethodGet, "/api/v1/notes", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing authorization header", env.reason())
}
