package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/auth"
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/layers"
)

type Handler struct {
	hub            *Hub
	tokens         *auth.Service
	originPatterns []string
}

func NewHandler(hub *Hub, tokens *auth.Service, originPatterns []string) *Handler {
	return &Handler{hub: hub, tokens: tokens, originPatterns: originPatterns}
}

type Info struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Objects   []document.Object `json:"objects"`
	Layers    []layers.Entry    `json:"layers"`
}

type createResponse struct {
	Session Info              `json:"session"`
	Token   *auth.TokenResult `json:"token"`
}

func info(s *Session) Info {
	return Info{ID: s.ID, CreatedAt: s.CreatedAt, Objects: s.Objects(), Layers: s.Layers()}
}

// Create starts a session and returns a token for it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Create()

	token, err := h.tokens.IssueToken(s.ID)
	if err != nil {
		slog.Error("issue session token failed", "error", err)
		if rmErr := h.hub.Remove(s.ID); rmErr != nil {
			slog.Warn("remove session", "session", s.ID, "error", rmErr)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{Session: info(s), Token: token})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.hub.Get(mux.Vars(r)["sessionId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info(s))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Remove(mux.Vars(r)["sessionId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitOperation applies one operation from an HTTP caller, for example
// a property panel that is not connected over the websocket.
func (h *Handler) SubmitOperation(w http.ResponseWriter, r *http.Request) {
	var op Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	ack, err := h.hub.Submit(mux.Vars(r)["sessionId"], op)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ack)
}

// ServeWS upgrades to a websocket attached to the session.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if _, err := h.hub.Get(sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.hub, conn, sessionID, clientID)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownSession):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, engine.ErrUnknownObject), errors.Is(err, layers.ErrUnknownLayer):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrUnknownOperation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
