package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// savePalette snapshots the package palette and restores it when the
// test finishes. Theme tests mutate globals, so they must not run in
// parallel.
func savePalette(t *testing.T) {
	t.Helper()
	navy, white, gray := ColorNavy, ColorWhite, ColorGray
	blue, green, yellow, red := ColorBlue, ColorGreen, ColorYellow, ColorRed
	t.Cleanup(func() {
		ColorNavy, ColorWhite, ColorGray = navy, white, gray
		ColorBlue, ColorGreen, ColorYellow, ColorRed = blue, green, yellow, red
	})
}

func TestInitializeTheme_DefaultSkipsFilesystem(t *testing.T) {
	savePalette(t)

	// A config dir that does not exist must not matter for the default.
	if err := InitializeTheme("default", "/nonexistent"); err != nil {
		t.Fatalf("InitializeTheme(default) = %v, want nil", err)
	}
	if err := InitializeTheme("", "/nonexistent"); err != nil {
		t.Fatalf("InitializeTheme(\"\") = %v, want nil", err)
	}
	if got, want := ColorGreen, lipgloss.Color("#49E209"); got != want {
		t.Fatalf("palette changed: ColorGreen = %q, want %q", got, want)
	}
}

func TestInitializeTheme_LoadsNamedTheme(t *testing.T) {
	savePalette(t)

	dir := t.TempDir()
	themeDir := filepath.Join(dir, "themes")
	if err := os.MkdirAll(themeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	theme := "green: \"#00FF00\"\nred: \"#AA0000\"\n"
	if err := os.WriteFile(filepath.Join(themeDir, "hacker.yml"), []byte(theme), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitializeTheme("hacker", dir); err != nil {
		t.Fatalf("InitializeTheme = %v, want nil", err)
	}

	if got, want := ColorGreen, lipgloss.Color("#00FF00"); got != want {
		t.Fatalf("ColorGreen = %q, want %q", got, want)
	}
	if got, want := ColorRed, lipgloss.Color("#AA0000"); got != want {
		t.Fatalf("ColorRed = %q, want %q", got, want)
	}
	// Colors the theme file does not name keep their defaults.
	if got, want := ColorNavy, lipgloss.Color("#1B2A4A"); got != want {
		t.Fatalf("ColorNavy = %q, want %q", got, want)
	}
}

func TestInitializeTheme_MissingFile(t *testing.T) {
	savePalette(t)

	if err := InitializeTheme("nope", t.TempDir()); err == nil {
		t.Fatal("expected error for missing theme file, got nil")
	}
}

func TestInitializeTheme_BadYAML(t *testing.T) {
	savePalette(t)

	dir := t.TempDir()
	themeDir := filepath.Join(dir, "themes")
	if err := os.MkdirAll(themeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(themeDir, "broken.yml"), []byte("green: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitializeTheme("broken", dir); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestPriorityStyle(t *testing.T) {
	tests := []struct {
		priority byte
		want     lipgloss.Color
	}{
		{'V', ColorGray},
		{'D', ColorGray},
		{'I', ColorGreen},
		{'W', ColorYellow},
		{'E', ColorRed},
		{'F', ColorRed},
		{0, ColorWhite},
		{'X', ColorWhite},
	}

	for _, tt := range tests {
		style := PriorityStyle(tt.priority)
		if got := style.GetForeground(); got != tt.want {
			t.Fatalf("PriorityStyle(%q) foreground = %v, want %v", tt.priority, got, tt.want)
		}
	}
}
