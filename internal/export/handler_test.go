package export

import (
	"bytes"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/session"
)

func newRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	hub := session.NewHub(session.Options{Seed: true, Logger: logger})
	s := hub.Create()
	t.Cleanup(func() { _ = hub.Remove(s.ID) })

	r := mux.NewRouter()
	r.HandleFunc("/sessions/{sessionId}/export.png", NewHandler(hub, 200, 100, logger).ExportPNG).Methods("GET")
	return r, s.ID
}

func TestExportPNG(t *testing.T) {
	router, id := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/export.png?name=my%20scene", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="my-scene.png"`)

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestExportPNGOverridesAndErrors(t *testing.T) {
	router, id := newRouter(t)

	tests := []struct {
		target string
		status int
	}{
		{"/sessions/" + id + "/export.png?width=64&height=32", http.StatusOK},
		{"/sessions/" + id + "/export.png?width=0", http.StatusBadRequest},
		{"/sessions/" + id + "/export.png?height=abc", http.StatusBadRequest},
		{"/sessions/" + id + "/export.png?width=99999", http.StatusBadRequest},
		{"/sessions/sess_missing/export.png", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
