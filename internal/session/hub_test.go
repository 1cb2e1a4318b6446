package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMessage(ctx context.Context, t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestHubSessions(t *testing.T) {
	hub := NewHub(Options{Logger: discard()})
	s := hub.Create()

	got, err := hub.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.True(t, strings.HasPrefix(s.ID, "sess_"))

	require.NoError(t, hub.Remove(s.ID))
	_, err = hub.Get(s.ID)
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorIs(t, hub.Remove(s.ID), ErrUnknownSession)
}

func TestClientOverWebsocket(t *testing.T) {
	hub := NewHub(Options{Logger: discard(), Seed: true})
	go hub.Run()
	defer hub.Stop()
	s := hub.Create()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(hub, conn, s.ID, "c1")
		hub.Register(c)
		go c.WritePump(r.Context())
		c.ReadPump(r.Context())
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	assert.Equal(t, TypeWelcome, readMessage(ctx, t, conn).Type)
	assert.Equal(t, TypePresenceState, readMessage(ctx, t, conn).Type)
	assert.Equal(t, TypeFrame, readMessage(ctx, t, conn).Type)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"tool.set","payload":{"tool":"lasso"}}`)))
	m := readMessage(ctx, t, conn)
	assert.Equal(t, TypeError, m.Type)
	assert.Equal(t, s.ID, m.SessionID)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"type":"tool.set","payload":{"tool":"pen"}}`)))
	m = readMessage(ctx, t, conn)
	assert.Equal(t, TypeFrame, m.Type)
	var f FramePayload
	require.NoError(t, json.Unmarshal(m.Payload, &f))
	assert.Equal(t, "pen", string(f.Tool))
}
