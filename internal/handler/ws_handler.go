package handler

import (
	"context"
	"net/http"
	"strings"

	"pocketnotes/internal/config"
	"pocketnotes/internal/logging"
	"pocketnotes/internal/query"
	"pocketnotes/internal/service"
	"pocketnotes/internal/websocket"
	"pocketnotes/pkg/jwt"
	"pocketnotes/pkg/response"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	manager   *websocket.Manager
	session   *service.SessionService
	jwtSecret string
	upgrader  ws.Upgrader
	logger    logging.Logger
}

func NewWebSocketHandler(manager *websocket.Manager, session *service.SessionService, jwtSecret string, cfg config.WebSocketConfig, logger logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		manager:   manager,
		session:   session,
		jwtSecret: jwtSecret,
		upgrader: ws.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With("handler", "websocket"),
	}
}

// HandleConnection upgrades a request authenticated as the current session
// user. The token comes from ?token= or a bearer Authorization header.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	if token == "" {
		response.Unauthorized(w, "Missing authorization token")
		return
	}

	if h.session.State() != service.StateReady {
		response.SessionLoading(w, string(h.session.State()))
		return
	}

	claims, err := jwt.ValidateToken(token, h.jwtSecret)
	if err != nil {
		h.logger.Warn(ctx, "token validation failed", "error", err)
		response.Unauthorized(w, "Invalid or expired token")
		return
	}

	current := h.session.CurrentUser()
	if current == nil || current.ID != claims.UserID {
		response.SessionEnded(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "failed to upgrade connection", "user_id", claims.UserID, "error", err)
		return
	}

	client := websocket.NewClient(uuid.New().String(), claims.UserID, conn, h.manager)

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// WebSocketMessageHandler answers inbound client messages.
type WebSocketMessageHandler struct {
	notes   *service.NoteService
	manager *websocket.Manager
	logger  logging.Logger
}

func NewWebSocketMessageHandler(notes *service.NoteService, manager *websocket.Manager, logger logging.Logger) *WebSocketMessageHandler {
	return &WebSocketMessageHandler{
		notes:   notes,
		manager: manager,
		logger:  logger.With("handler", "websocket_messages"),
	}
}

func (h *WebSocketMessageHandler) HandleWebSocketMessage(ctx context.Context, client *websocket.Client, msg *websocket.Message) error {
	switch msg.Type {
	case websocket.TypePing:
		return h.reply(client, websocket.TypePong, nil)

	case websocket.TypeProject:
		return h.handleProject(ctx, client, msg)

	default:
		h.logger.Warn(ctx, "unknown message type", "type", msg.Type, "client_id", client.ID)
		return h.reply(client, websocket.TypeError, &websocket.ErrorPayload{Message: "unknown message type: " + string(msg.Type)})
	}
}

func (h *WebSocketMessageHandler) handleProject(ctx context.Context, client *websocket.Client, msg *websocket.Message) error {
	var payload websocket.ProjectPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return h.reply(client, websocket.TypeError, &websocket.ErrorPayload{Message: "invalid project payload"})
	}

	mode, err := query.ParseSortMode(payload.Sort)
	if err != nil {
		return h.reply(client, websocket.TypeError, &websocket.ErrorPayload{Message: err.Error()})
	}

	return h.reply(client, websocket.TypeProjection, &websocket.ProjectionPayload{
		Query: payload.Query,
		Sort:  string(mode),
		Notes: h.notes.List(ctx, client.UserID, payload.Query, mode),
	})
}

func (h *WebSocketMessageHandler) reply(client *websocket.Client, msgType websocket.MessageType, payload interface{}) error {
	out, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		return err
	}

	return h.manager.SendToClient(client.ID, out)
}
