package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pocketnotes/internal/config"
	"pocketnotes/internal/logging"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

// Manager tracks live connections per user. Registration, removal and
// inbound message dispatch all happen on the Run goroutine.
type Manager struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnPerUser int
	maxMessageSize int64
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	messageHandler MessageHandler
	logger         logging.Logger
	done           chan struct{}
}

type MessageHandler interface {
	HandleWebSocketMessage(ctx context.Context, client *Client, msg *Message) error
}

func NewManager(cfg config.WebSocketConfig, logger logging.Logger) *Manager {
	return &Manager{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnPerUser: cfg.MaxConnPerUser,
		maxMessageSize: cfg.MaxMessageSize,
		writeWait:      cfg.WriteWait,
		pongWait:       cfg.PongWait,
		pingPeriod:     cfg.PingPeriod,
		logger:         logger.With("component", "websocket"),
		done:           make(chan struct{}),
	}
}

func (m *Manager) SetMessageHandler(handler MessageHandler) {
	m.messageHandler = handler
}

// Run serves the manager channels until ctx is cancelled, then closes every
// remaining connection's send queue.
func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case client := <-m.Register:
			m.registerClient(ctx, client)

		case client := <-m.Unregister:
			m.unregisterClient(ctx, client)

		case clientMsg := <-m.HandleMessage:
			m.processMessage(ctx, clientMsg)

		case <-ctx.Done():
			m.closeAll()
			return
		}
	}
}

func (m *Manager) registerClient(ctx context.Context, client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if m.userIndex[client.UserID] == nil {
		m.userIndex[client.UserID] = make(map[string]bool)
	}

	if len(m.userIndex[client.UserID]) >= m.maxConnPerUser {
		m.logger.Warn(ctx, "max connections reached", "user_id", client.UserID)
		if len(m.userIndex[client.UserID]) == 0 {
			delete(m.userIndex, client.UserID)
		}
		close(client.Send)
		return
	}

	m.clients[client.ID] = client
	m.userIndex[client.UserID][client.ID] = true

	m.logger.Info(ctx, "client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (m *Manager) unregisterClient(ctx context.Context, client *Client) {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		delete(m.userIndex[client.UserID], client.ID)

		if len(m.userIndex[client.UserID]) == 0 {
			delete(m.userIndex, client.UserID)
		}

		close(client.Send)
		m.logger.Info(ctx, "client unregistered", "client_id", client.ID)
	}
}

// unregister hands client to Run, giving up once Run has returned.
func (m *Manager) unregister(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) dispatch(msg *ClientMessage) bool {
	select {
	case m.HandleMessage <- msg:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) closeAll() {
	m.clientsMutex.Lock()
	defer m.clientsMutex.Unlock()

	for id, client := range m.clients {
		close(client.Send)
		delete(m.clients, id)
	}
	m.userIndex = make(map[string]map[string]bool)
}

func (m *Manager) processMessage(ctx context.Context, clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		m.logger.Warn(ctx, "invalid websocket message", "client_id", clientMsg.Client.ID, "error", err)
		return
	}

	if m.messageHandler != nil {
		if err := m.messageHandler.HandleWebSocketMessage(ctx, clientMsg.Client, &msg); err != nil {
			m.logger.Error(ctx, "failed to handle websocket message", "type", msg.Type, "error", err)
		}
	}
}

// BroadcastToUser queues message on every connection of userID except
// excludeClientID. Connections whose queue is full are dropped.
func (m *Manager) BroadcastToUser(userID string, message *Message, excludeClientID string) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	var slow []*Client

	m.clientsMutex.RLock()
	for clientID := range m.userIndex[userID] {
		if clientID == excludeClientID {
			continue
		}
		client := m.clients[clientID]
		select {
		case client.Send <- messageBytes:
		default:
			slow = append(slow, client)
		}
	}
	m.clientsMutex.RUnlock()

	for _, client := range slow {
		m.logger.Warn(context.Background(), "send buffer full, closing connection", "client_id", client.ID)
		go m.unregister(client)
	}

	return nil
}

// SendToClient queues message for a single connection. Unknown ids are
// ignored and a full queue drops the message.
func (m *Manager) SendToClient(clientID string, message *Message) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	client, exists := m.clients[clientID]
	if !exists {
		return nil
	}

	select {
	case client.Send <- messageBytes:
	default:
		m.logger.Warn(context.Background(), "send buffer full, message dropped", "client_id", clientID)
	}

	return nil
}

func (m *Manager) GetUserConnections(userID string) int {
	m.clientsMutex.RLock()
	defer m.clientsMutex.RUnlock()

	if clients, exists := m.userIndex[userID]; exists {
		return len(clients)
	}
	return 0
}
