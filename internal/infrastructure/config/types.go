package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"
)

// DisplayFile is the root config for display.json
type DisplayFile struct {
	Display DisplayConfig `json:"display"`
}

// DisplayConfig sizes the drawing surface and the host window
type DisplayConfig struct {
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Scale        int    `json:"scale"`      // Window pixels per surface pixel
	Framerate    int    `json:"framerate"`  // Host ticks per second
	Title        string `json:"title"`      // Window title
	Background   string `json:"background"` // "#rrggbb" painted behind the surface
}

// AssetsFile is the root config for assets.json
type AssetsFile struct {
	Assets AssetsConfig `json:"assets"`
}

// AssetsConfig controls scene loading
type AssetsConfig struct {
	Manifest    string `json:"manifest"`    // Scene manifest URL or path
	BaseDir     string `json:"baseDir"`     // Directory relative paths are read from; empty uses the embedded assets
	Concurrency int    `json:"concurrency"` // Atlases loaded at once
	TimeoutMs   int    `json:"timeoutMs"`   // Whole-scene load timeout (0 = none)
	MaxBytes    int64  `json:"maxBytes"`    // HTTP response size cap (0 = none)
}

// Timeout returns TimeoutMs as a duration
func (a AssetsConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// Default values for fields left at zero
const (
	DefaultScreenWidth  = 1024
	DefaultScreenHeight = 768
	DefaultScale        = 1
	DefaultFramerate    = 60
	DefaultTitle        = "sprite2d"
	DefaultManifest     = "main.scene.json"
	DefaultConcurrency  = 8
)

// ApplyDefaults fills unset display fields
func (d *DisplayConfig) ApplyDefaults() {
	if d.ScreenWidth <= 0 {
		d.ScreenWidth = DefaultScreenWidth
	}
	if d.ScreenHeight <= 0 {
		d.ScreenHeight = DefaultScreenHeight
	}
	if d.Scale <= 0 {
		d.Scale = DefaultScale
	}
	if d.Framerate <= 0 {
		d.Framerate = DefaultFramerate
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
}

// BackgroundColor parses Background. An empty value is transparent black.
func (d DisplayConfig) BackgroundColor() (color.RGBA, error) {
	if d.Background == "" {
		return color.RGBA{}, nil
	}
	return ParseHexColor(d.Background)
}

// ApplyDefaults fills unset asset fields
func (a *AssetsConfig) ApplyDefaults() {
	if a.Manifest == "" {
		a.Manifest = DefaultManifest
	}
	if a.Concurrency <= 0 {
		a.Concurrency = DefaultConcurrency
	}
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa"
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
