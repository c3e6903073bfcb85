package ws_deck

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/moviemingle/internal/delivery/http/common"
	"github.com/humanbelnik/moviemingle/internal/model"
	usecase_deck "github.com/humanbelnik/moviemingle/internal/usecase/deck"
)

type MessageType string

const (
	DeckState MessageType = "deck_state"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

type Message struct {
	Type  MessageType             `json:"type"`
	State http_common.SnapshotDTO `json:"state"`
}

type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Token model.SessionToken

	// version of the last snapshot queued, guarded by the hub lock.
	version uint64
}

func NewClient(conn *websocket.Conn, token model.SessionToken) *Client {
	return &Client{
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		Token: token,
	}
}

// Hub fans deck snapshots out to every socket opened with the same session.
// A client's Send channel is closed exactly once, when it leaves the hub.
type Hub struct {
	mu sync.Mutex

	sessions map[model.SessionToken]map[*Client]struct{}

	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[model.SessionToken]map[*Client]struct{}),
		logger:   logger,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[client.Token]; !ok {
		h.sessions[client.Token] = make(map[*Client]struct{})
	}
	h.sessions[client.Token][client] = struct{}{}

	h.logger.Info("client registered", slog.Int("session_clients", len(h.sessions[client.Token])))
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removeLocked(client) {
		h.logger.Info("client unregistered")
	}
}

// DeckChanged pushes the snapshot to the session's sockets. A client never
// gets a snapshot older than one it already has. Slow clients are dropped
// instead of blocking the deck.
func (h *Hub) DeckChanged(token model.SessionToken, s usecase_deck.Snapshot) {
	data, err := json.Marshal(Message{
		Type:  DeckState,
		State: http_common.ToSnapshotDTO(s),
	})
	if err != nil {
		h.logger.Error("failed to encode deck state", slog.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[token] {
		if s.Version != 0 && s.Version <= client.version {
			continue
		}
		select {
		case client.Send <- data:
			if s.Version > client.version {
				client.version = s.Version
			}
		default:
			h.logger.Warn("dropping slow client")
			h.removeLocked(client)
		}
	}
}

// Disconnect closes every socket of the session, used on sign-out.
func (h *Hub) Disconnect(token model.SessionToken) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[token] {
		h.removeLocked(client)
	}
}

func (h *Hub) ClientsCount(token model.SessionToken) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[token])
}

func (h *Hub) removeLocked(client *Client) bool {
	clients, ok := h.sessions[client.Token]
	if !ok {
		return false
	}
	if _, ok := clients[client]; !ok {
		return false
	}

	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.sessions, client.Token)
	}
	return true
}

// StartClientReading drains the socket until the peer goes away. Inbound
// messages are ignored; swipes go through the HTTP API.
func (h *Hub) StartClientReading(client *Client) {
	defer func() {
		h.RemoveClient(client)
		client.Conn.Close()
	}()

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) StartClientWriting(client *Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	client.Conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
