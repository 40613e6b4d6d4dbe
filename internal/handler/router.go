package handler

import (
	"net/http"

	"pocketnotes/internal/config"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/middleware"
	"pocketnotes/internal/service"
	"pocketnotes/internal/websocket"
	"pocketnotes/pkg/response"

	"github.com/gorilla/mux"
)

// NewRouter wires every HTTP route of the API.
func NewRouter(cfg *config.Config, session *service.SessionService, notes *service.NoteService, manager *websocket.Manager, logger logging.Logger) *mux.Router {
	authHandler := NewAuthHandler(session, cfg.JWT.Secret, cfg.JWT.Expiration, logger)
	noteHandler := NewNoteHandler(notes, logger)
	wsHandler := NewWebSocketHandler(manager, session, cfg.JWT.Secret, cfg.WebSocket, logger)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS))

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", authHandler.SignUp).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/session", authHandler.Session).Methods("GET", "OPTIONS")

	requireLogoutToken := middleware.LogoutMiddleware(cfg.JWT.Secret, session)
	api.Handle("/auth/logout", requireLogoutToken(http.HandlerFunc(authHandler.Logout))).Methods("POST", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, session))

	protected.HandleFunc("/notes", noteHandler.Create).Methods("POST", "OPTIONS")
	protected.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Update).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/ws", wsHandler.HandleConnection)

	r.HandleFunc("/health", healthHandler).Methods("GET")

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status":  "healthy",
		"service": "pocketnotes",
	})
}
