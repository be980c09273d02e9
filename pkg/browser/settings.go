package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ingobeans/toad/pkg/css"
)

// Theme is one color set for the chrome and page defaults.
type Theme struct {
	Name string
	// Background and Text are the page defaults; UI colors the top
	// bar, Interactive highlights the hovered interactable.
	Background  css.Color
	Text        css.Color
	UI          css.Color
	Interactive css.Color
	Dark        bool
}

var themes = []Theme{
	{
		Name:        "light",
		Background:  css.Color{R: 255, G: 255, B: 255},
		Text:        css.Color{R: 0, G: 0, B: 0},
		UI:          css.Color{R: 174, G: 175, B: 204},
		Interactive: css.Color{R: 129, G: 154, B: 255},
	},
	{
		Name:        "dark",
		Background:  css.Color{R: 55, G: 55, B: 55},
		Text:        css.Color{R: 255, G: 255, B: 255},
		UI:          css.Color{R: 0, G: 0, B: 0},
		Interactive: css.Color{R: 192, G: 212, B: 255},
		Dark:        true,
	},
}

const settingsFile = "toad.cfg"

// Settings is the persisted browser state: two bytes next to the
// executable.
type Settings struct {
	ImagesEnabled bool
	ThemeIndex    uint8
}

// DefaultSettings enables images with the light theme.
func DefaultSettings() Settings {
	return Settings{ImagesEnabled: true, ThemeIndex: 0}
}

// Theme returns the active theme; an out-of-range index falls back to
// the first theme.
func (s Settings) Theme() Theme {
	if int(s.ThemeIndex) >= len(themes) {
		return themes[0]
	}
	return themes[s.ThemeIndex]
}

// CycleTheme advances to the next theme, wrapping around.
func (s *Settings) CycleTheme() {
	s.ThemeIndex = (s.ThemeIndex + 1) % uint8(len(themes))
}

// Serialize encodes the settings as the two-byte file format.
func (s Settings) Serialize() []byte {
	b := []byte{0, s.ThemeIndex}
	if s.ImagesEnabled {
		b[0] = 1
	}
	return b
}

// DeserializeSettings decodes the two-byte format. Short or oversized
// data is rejected.
func DeserializeSettings(data []byte) (Settings, error) {
	if len(data) != 2 {
		return Settings{}, fmt.Errorf("settings file is %d bytes, want 2", len(data))
	}
	return Settings{ImagesEnabled: data[0] != 0, ThemeIndex: data[1]}, nil
}

// settingsPath is the fixed file location next to the executable.
func settingsPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), settingsFile), nil
}

// LoadSettings reads the persisted settings, falling back to defaults
// when the file is missing or malformed.
func LoadSettings() Settings {
	path, err := settingsPath()
	if err != nil {
		return DefaultSettings()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettings()
	}
	s, err := DeserializeSettings(data)
	if err != nil {
		return DefaultSettings()
	}
	return s
}

// Save persists the settings next to the executable.
func (s Settings) Save() error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, s.Serialize(), 0o644)
}
