// Package export rasterises a session's scene to PNG.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/raster"
	"github.com/inamate/canvas/internal/session"
)

const maxSide = 4096

// FrameSource yields the frame to export for a session.
type FrameSource interface {
	ExportFrame(sessionID string) (engine.Frame, error)
}

type Handler struct {
	frames        FrameSource
	width, height int
	logger        *slog.Logger
}

// NewHandler exports at width×height unless the request overrides it.
func NewHandler(frames FrameSource, width, height int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{frames: frames, width: width, height: height, logger: logger}
}

// ExportPNG answers GET .../{sessionId}/export.png?width=&height=&name=.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	width, err := dimension(r.URL.Query().Get("width"), h.width)
	if err != nil {
		http.Error(w, "invalid width: "+err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r.URL.Query().Get("height"), h.height)
	if err != nil {
		http.Error(w, "invalid height: "+err.Error(), http.StatusBadRequest)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "canvas"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	frame, err := h.frames.ExportFrame(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrUnknownSession) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("export frame", "session", sessionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data, err := Render(frame, width, height, h.logger)
	if err != nil {
		h.logger.Error("render export", "session", sessionID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.png"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)

	h.logger.Info("export complete", "session", sessionID, "objects", len(frame.Objects), "size", len(data))
}

// Render draws frame on a width×height raster canvas and encodes it.
func Render(frame engine.Frame, width, height int, logger *slog.Logger) ([]byte, error) {
	canvas, err := raster.New(width, height, raster.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer canvas.Close()

	engine.RenderPass{Logger: logger}.Render(canvas, frame)

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func dimension(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v > maxSide {
		return 0, fmt.Errorf("%d outside 1..%d", v, maxSide)
	}
	return v, nil
}
