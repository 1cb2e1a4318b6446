package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/typeid"
)

// Hub owns the sessions and routes messages between them and their
// connected clients.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	clients    map[string]map[string]*Client // sessionID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	opts   Options
	logger *slog.Logger
}

// NewHub creates a hub; opts is applied to every session it creates.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Logger = logger
	return &Hub{
		sessions:   make(map[string]*Session),
		clients:    make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		opts:       opts,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and closes every session.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, s := range h.sessions {
			if err := s.Close(); err != nil {
				h.logger.Warn("close session", "session", id, "error", err)
			}
		}
	})
}

// Create starts a new session.
func (h *Hub) Create() *Session {
	s := New(typeid.NewSessionID(), h.opts)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.logger.Info("session created", "session", s.ID)
	return s
}

// Get returns the session with id.
func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrUnknownSession)
	}
	return s, nil
}

// Remove closes a session. Connected clients are disconnected.
func (h *Hub) Remove(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("session %q: %w", id, ErrUnknownSession)
	}
	delete(h.sessions, id)
	for _, c := range h.clients[id] {
		close(c.send)
	}
	delete(h.clients, id)
	h.mu.Unlock()

	h.logger.Info("session removed", "session", id)
	return s.Close()
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	s, ok := h.sessions[client.SessionID]
	if !ok {
		h.mu.Unlock()
		h.logger.Warn("client for unknown session", "session", client.SessionID)
		close(client.send)
		return
	}
	room, ok := h.clients[client.SessionID]
	if !ok {
		room = make(map[string]*Client)
		h.clients[client.SessionID] = room
	}
	room[client.ClientID] = client
	h.mu.Unlock()

	h.deliver(client.SessionID, s.Welcome(client.ClientID))
	h.logger.Info("client joined", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.clients[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, client.ClientID)
	close(client.send)
	if len(room) == 0 {
		delete(h.clients, client.SessionID)
	}
	s := h.sessions[client.SessionID]
	h.mu.Unlock()

	if s != nil {
		h.deliver(client.SessionID, s.Leave(client.ClientID))
	}
	h.logger.Info("client left", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	s, err := h.Get(sender.SessionID)
	if err != nil {
		h.logger.Warn("message for unknown session", "session", sender.SessionID, "type", msg.Type)
		return
	}
	h.deliver(sender.SessionID, s.Handle(sender.ClientID, msg))
}

// deliver sends envelopes to the session's clients. Sends happen under the
// read lock so a client's channel cannot be closed mid-send.
func (h *Hub) deliver(sessionID string, envs []Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room := h.clients[sessionID]
	for _, env := range envs {
		if env.To != "" {
			if c, ok := room[env.To]; ok {
				c.Send(env.Message)
			}
			continue
		}
		for id, c := range room {
			if id != env.Exclude {
				c.Send(env.Message)
			}
		}
	}
}

// Submit applies an operation to a session and forwards the result to its
// connected clients.
func (h *Hub) Submit(sessionID string, op Operation) (OperationAckPayload, error) {
	s, err := h.Get(sessionID)
	if err != nil {
		return OperationAckPayload{}, err
	}
	ack, envs, err := s.Submit(op)
	if err != nil {
		return OperationAckPayload{}, err
	}
	h.deliver(sessionID, envs)
	return ack, nil
}

// ExportFrame returns the chrome-free frame of a session's scene.
func (h *Hub) ExportFrame(sessionID string) (engine.Frame, error) {
	s, err := h.Get(sessionID)
	if err != nil {
		return engine.Frame{}, err
	}
	return s.ExportFrame(), nil
}
