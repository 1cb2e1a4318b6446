package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	JWTSecret      string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	Canvas         Canvas        `envconfig:"CANVAS"`
}

// Canvas holds the engine settings and the defaults new sessions start
// with. Sizes are in screen pixels unless noted.
type Canvas struct {
	HandleRadius    float64 `envconfig:"HANDLE_RADIUS" default:"7"`
	ScaleHitRadius  float64 `envconfig:"SCALE_HIT_RADIUS" default:"14"`
	RotateHitRadius float64 `envconfig:"ROTATE_HIT_RADIUS" default:"28"`
	RotateOffset    float64 `envconfig:"ROTATE_OFFSET" default:"24"`
	PenCloseRadius  float64 `envconfig:"PEN_CLOSE_RADIUS" default:"10"`
	MinScreenSize   float64 `envconfig:"MIN_SCREEN_SIZE" default:"10"`
	LineHitSlop     float64 `envconfig:"LINE_HIT_SLOP" default:"4"`
	DragThreshold   float64 `envconfig:"DRAG_THRESHOLD" default:"4"`
	MinZoom         float64 `envconfig:"MIN_ZOOM" default:"0.1"`
	MaxZoom         float64 `envconfig:"MAX_ZOOM" default:"20"`
	FontSize        float64 `envconfig:"FONT_SIZE" default:"20"`

	Background  string  `envconfig:"BACKGROUND" default:"#1e1e1e"`
	Fill        string  `envconfig:"FILL" default:"#FFFFFF"`
	Stroke      string  `envconfig:"STROKE" default:"#000000"`
	StrokeWidth float64 `envconfig:"STROKE_WIDTH" default:"2"`

	ExportWidth  int  `envconfig:"EXPORT_WIDTH" default:"1280"`
	ExportHeight int  `envconfig:"EXPORT_HEIGHT" default:"720"`
	SeedSample   bool `envconfig:"SEED_SAMPLE" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Canvas.MinZoom > c.Canvas.MaxZoom {
		return fmt.Errorf("CANVAS_MIN_ZOOM %v exceeds CANVAS_MAX_ZOOM %v", c.Canvas.MinZoom, c.Canvas.MaxZoom)
	}
	if c.Canvas.ExportWidth <= 0 || c.Canvas.ExportHeight <= 0 {
		return fmt.Errorf("export size %dx%d must be positive", c.Canvas.ExportWidth, c.Canvas.ExportHeight)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

// CORSOrigins returns ALLOWED_ORIGINS as full origins.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Origins returns ALLOWED_ORIGINS as host patterns for websocket accept.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range c.CORSOrigins() {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		out = append(out, o)
	}
	return out
}

// Settings converts the canvas block to engine settings. Zoom factors
// keep their engine defaults.
func (c Canvas) Settings() engine.Settings {
	s := engine.DefaultSettings()
	s.HandleRadius = c.HandleRadius
	s.ScaleHitRadius = c.ScaleHitRadius
	s.RotateHitRadius = c.RotateHitRadius
	s.RotateOffset = c.RotateOffset
	s.PenCloseRadius = c.PenCloseRadius
	s.MinScreenSize = c.MinScreenSize
	s.LineHitSlop = c.LineHitSlop
	s.DragThreshold = c.DragThreshold
	s.MinZoom = c.MinZoom
	s.MaxZoom = c.MaxZoom
	s.FontSize = c.FontSize
	return s
}

func (c Canvas) Paint() document.PaintDefaults {
	return document.PaintDefaults{Fill: c.Fill, Stroke: c.Stroke, StrokeWidth: c.StrokeWidth}
}
