package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/logtap/logtap/internal/model"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette used across the watch UI. InitializeTheme may override these
// from a user theme file before the program starts; after that they are
// read-only.
var (
	ColorNavy   = lipgloss.Color("#1B2A4A")
	ColorWhite  = lipgloss.Color("#FFFFFF")
	ColorGray   = lipgloss.Color("#6B7089")
	ColorBlue   = lipgloss.Color("#4D9DE0")
	ColorGreen  = lipgloss.Color("#49E209")
	ColorYellow = lipgloss.Color("#FFB020")
	ColorRed    = lipgloss.Color("#FF6B6B")
)

// Theme is the on-disk theme format. Empty fields keep the built-in
// color, so a theme file only needs to name the colors it changes.
type Theme struct {
	Navy   string `yaml:"navy"`
	White  string `yaml:"white"`
	Gray   string `yaml:"gray"`
	Blue   string `yaml:"blue"`
	Green  string `yaml:"green"`
	Yellow string `yaml:"yellow"`
	Red    string `yaml:"red"`
}

// InitializeTheme loads the named theme from configDir/themes/<name>.yml
// and applies it to the package palette. The default theme name keeps the
// built-in palette without touching the filesystem.
func InitializeTheme(name, configDir string) error {
	if name == "" || name == model.DefaultTheme {
		return nil
	}

	path := filepath.Join(configDir, "themes", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading theme %q: %w", name, err)
	}

	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("parsing theme %q: %w", name, err)
	}

	t.apply()
	return nil
}

func (t Theme) apply() {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorNavy, t.Navy)
	set(&ColorWhite, t.White)
	set(&ColorGray, t.Gray)
	set(&ColorBlue, t.Blue)
	set(&ColorGreen, t.Green)
	set(&ColorYellow, t.Yellow)
	set(&ColorRed, t.Red)
}

// PriorityStyle maps a threadtime priority letter to the style its lines
// are rendered with. Unknown priorities render unstyled.
func PriorityStyle(priority byte) lipgloss.Style {
	switch priority {
	case 'V', 'D':
		return lipgloss.NewStyle().Foreground(ColorGray)
	case 'I':
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case 'W':
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case 'E':
		return lipgloss.NewStyle().Foreground(ColorRed)
	case 'F':
		return lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorWhite)
	}
}
