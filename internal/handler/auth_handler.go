package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pocketnotes/internal/domain"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/service"
	"pocketnotes/pkg/jwt"
	"pocketnotes/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	session       *service.SessionService
	jwtSecret     string
	jwtExpiration time.Duration
	validator     *validator.Validate
	logger        logging.Logger
}

func NewAuthHandler(session *service.SessionService, jwtSecret string, jwtExpiration time.Duration, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		session:       session,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		validator:     validator.New(),
		logger:        logger.With("handler", "auth"),
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Invalid(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Invalid(w, err.Error())
		return
	}

	user, err := h.session.SignUp(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.authFailed(w, r, err, http.StatusBadRequest, service.SignUpFailedReason)
		return
	}

	h.issue(w, r, http.StatusCreated, user, service.SignUpFailedReason)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Invalid(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Invalid(w, err.Error())
		return
	}

	user, err := h.session.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.authFailed(w, r, err, http.StatusUnauthorized, service.LoginFailedReason)
		return
	}

	h.issue(w, r, http.StatusOK, user, service.LoginFailedReason)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout(r.Context())

	response.OK(w, map[string]string{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.OK(w, &domain.SessionResponse{
		State: string(h.session.State()),
		User:  h.session.CurrentUser(),
	})
}

// authFailed reports user-facing rejections with their reason and hides
// everything else behind fallback.
func (h *AuthHandler) authFailed(w http.ResponseWriter, r *http.Request, err error, status int, fallback string) {
	var authErr *service.AuthError
	switch {
	case errors.As(err, &authErr):
		response.Rejected(w, status, authErr.Reason)
	case errors.Is(err, service.ErrSessionNotReady):
		response.SessionLoading(w, string(h.session.State()))
	default:
		h.logger.Error(r.Context(), "authentication failed", "path", r.URL.Path, "error", err)
		response.Internal(w, fallback)
	}
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, status int, user *domain.User, fallback string) {
	token, err := jwt.GenerateToken(user.ID, h.jwtExpiration, h.jwtSecret)
	if err != nil {
		h.logger.Error(r.Context(), "failed to generate access token", "user_id", user.ID, "error", err)
		response.Internal(w, fallback)
		return
	}

	response.Data(w, status, &domain.AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresIn:   int64(h.jwtExpiration.Seconds()),
	})
}
