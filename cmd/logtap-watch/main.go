package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var socketPath string
	var pingOnly bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/logtap/config.yml)")
	flag.StringVar(&socketPath, "socket", "", "override socket path to connect to logtapd")
	flag.BoolVar(&pingOnly, "ping", false, "check that logtapd answers on the control socket, then exit")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Logtap - Event Stream Viewer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadCLIConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if socketPath != "" {
		cfg.SocketPath = socketPath
	}

	if pingOnly {
		if err := control.Ping(cfg.SocketPath); err != nil {
			fmt.Fprintf(os.Stderr, "logtapd is not answering at %s: %v\n", cfg.SocketPath, err)
			os.Exit(1)
		}
		fmt.Printf("logtapd is answering at %s\n", cfg.SocketPath)
		return
	}

	if err := runWatch(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWatch(cfg cliConfig) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "logtap")
	if err := tui.InitializeTheme(cfg.Theme, configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load theme '%s': %v (using default)\n", cfg.Theme, err)
	}

	conn, err := control.Subscribe(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("cannot connect to logtapd at %s: %w\nIs logtapd running? Start it with: logtapd", cfg.SocketPath, err)
	}
	defer conn.Close()

	watcher := tui.NewWatchModel(conn, cfg.SocketPath, cfg.LineBuffer)

	p := tea.NewProgram(watcher, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("watch view requires a real terminal")
		}
		return fmt.Errorf("error running watch view: %w", err)
	}

	return nil
}
