package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/auth"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	hub := NewHub(Options{Logger: discard(), Seed: true})
	tokens := auth.NewService("test-secret", time.Hour)
	h := NewHandler(hub, tokens, nil)

	r := mux.NewRouter()
	r.HandleFunc("/sessions", h.Create).Methods("POST")
	api := r.PathPrefix("/api").Subrouter()
	api.Use(tokens.AuthMiddleware)
	api.HandleFunc("/sessions/{sessionId}", h.Get).Methods("GET")
	api.HandleFunc("/sessions/{sessionId}", h.Delete).Methods("DELETE")
	api.HandleFunc("/sessions/{sessionId}/ops", h.SubmitOperation).Methods("POST")
	return r
}

func do(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionHTTPLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, token := created.Session.ID, created.Token.Token
	assert.Len(t, created.Session.Objects, 5)
	assert.Equal(t, id, created.Token.SessionID)

	rec = do(t, router, http.MethodGet, "/api/sessions/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Layers, 5)

	target := got.Objects[0].ID
	rec = do(t, router, http.MethodPost, "/api/sessions/"+id+"/ops", token, Operation{
		ID:       "op_1",
		Type:     OpObjectVisibility,
		ObjectID: target,
		Visible:  ref(false),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var ack OperationAckPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, int64(1), ack.ServerSeq)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+id+"/ops", token, Operation{Type: "object.explode"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/sessions/"+id+"/ops", token, Operation{
		Type: OpObjectLocked, ObjectID: "obj_missing", Locked: ref(true),
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/sessions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionHTTPRequiresToken(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/api/sessions/sess_x", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
