package notify

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketClient is one dashboard connection.
type WebSocketClient struct {
	Conn     *websocket.Conn
	WriteMux sync.Mutex
}

// NewWebSocketClient wraps a connection.
func NewWebSocketClient(conn *websocket.Conn) *WebSocketClient {
	return &WebSocketClient{Conn: conn}
}

// SafeWrite serializes writes; gorilla connections allow one writer at a
// time.
func (c *WebSocketClient) SafeWrite(v interface{}) error {
	c.WriteMux.Lock()
	defer c.WriteMux.Unlock()
	return c.Conn.WriteJSON(v)
}

// WebSocketManager tracks dashboard connections and bridges the Store to
// them: every published event is broadcast as JSON.
type WebSocketManager struct {
	clients     map[*WebSocketClient]bool
	clientMux   sync.Mutex
	logger      *zap.Logger
	unsubscribe func()
}

// NewWebSocketManager creates a manager subscribed to the store.
func NewWebSocketManager(store *Store, logger *zap.Logger) *WebSocketManager {
	m := &WebSocketManager{
		clients: make(map[*WebSocketClient]bool),
		logger:  logger,
	}
	m.unsubscribe = store.Subscribe(func(event Event) {
		m.Broadcast(event)
	})
	return m
}

// AddClient registers a connection.
func (m *WebSocketManager) AddClient(client *WebSocketClient) {
	m.clientMux.Lock()
	defer m.clientMux.Unlock()
	m.clients[client] = true
}

// RemoveClient drops a connection.
func (m *WebSocketManager) RemoveClient(client *WebSocketClient) {
	m.clientMux.Lock()
	defer m.clientMux.Unlock()
	delete(m.clients, client)
}

// ClientCount reports connected dashboards.
func (m *WebSocketManager) ClientCount() int {
	m.clientMux.Lock()
	defer m.clientMux.Unlock()
	return len(m.clients)
}

// Broadcast sends an event to every connected client, dropping clients
// whose writes fail.
func (m *WebSocketManager) Broadcast(v interface{}) {
	m.clientMux.Lock()
	clients := make([]*WebSocketClient, 0, len(m.clients))
	for client := range m.clients {
		clients = append(clients, client)
	}
	m.clientMux.Unlock()

	for _, client := range clients {
		if err := client.SafeWrite(v); err != nil {
			m.logger.Warn("dropping websocket client after failed write", zap.Error(err))
			client.Conn.Close()
			m.RemoveClient(client)
		}
	}
}

// Close detaches from the store and closes every connection.
func (m *WebSocketManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.clientMux.Lock()
	defer m.clientMux.Unlock()
	for client := range m.clients {
		client.Conn.Close()
	}
	m.clients = make(map[*WebSocketClient]bool)
}
