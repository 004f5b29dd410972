package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Display *DisplayConfig
	Assets  *AssetsConfig
}

// Loader loads host configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the path the loader was created with
func (l *Loader) BasePath() string {
	return l.basePath
}

func (l *Loader) readJSON(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadDisplay loads display.json
func (l *Loader) LoadDisplay() (*DisplayConfig, error) {
	var file DisplayFile
	if err := l.readJSON("display.json", &file); err != nil {
		return nil, err
	}
	file.Display.ApplyDefaults()
	if _, err := file.Display.BackgroundColor(); err != nil {
		return nil, fmt.Errorf("display.json: %w", err)
	}
	return &file.Display, nil
}

// LoadAssets loads assets.json
func (l *Loader) LoadAssets() (*AssetsConfig, error) {
	var file AssetsFile
	if err := l.readJSON("assets.json", &file); err != nil {
		return nil, err
	}
	file.Assets.ApplyDefaults()
	return &file.Assets, nil
}

// LoadAll loads all configurations (display, assets)
func (l *Loader) LoadAll() (*GameConfig, error) {
	display, err := l.LoadDisplay()
	if err != nil {
		return nil, err
	}

	assets, err := l.LoadAssets()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Display: display,
		Assets:  assets,
	}, nil
}
