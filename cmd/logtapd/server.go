package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/httpserver"
	"github.com/logtap/logtap/internal/logsource"
	"github.com/logtap/logtap/internal/monitor"
	"github.com/logtap/logtap/internal/registry"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
)

// runDaemon starts the monitor loop with the control socket and HTTP API.
func runDaemon(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	log.Printf("logtapd: version %s starting, tag %s", version, cfg.DaemonTag)

	// Build the listener registry and open the file sinks into it.
	reg := registry.New(registry.Config{
		EventMarker: cfg.EventMarker,
		DaemonTag:   cfg.DaemonTag,
	})

	plugins := buildSinkPlugins(SinkPluginConfig{
		LogFile:      cfg.LogFile,
		DebugEnabled: cfg.DebugLog,
		DebugLogFile: cfg.DebugLogFile,
	})
	for _, plugin := range plugins {
		if !plugin.Enabled() {
			continue
		}
		slot, target, err := plugin.Open()
		if err != nil {
			log.Printf("Error opening sink plugin %q: %v", plugin.Name(), err)
			continue
		}
		reg.Register(slot, target)
	}

	// Bind the control socket for dynamic subscribers.
	ctl := control.NewServer(cfg.SocketPath)
	if err := ctl.Start(); err != nil {
		return fmt.Errorf("failed to start control socket: %w", err)
	}
	defer ctl.Stop()

	// Supervise the external producer.
	src := logsource.NewSupervisor(logsource.Config{
		Path:         cfg.SourcePath,
		StartArgs:    logsource.StartArgs(cfg.SourceBuffers, cfg.EventMarker, cfg.DaemonTag),
		ProbeTimeout: cfg.ProbeTimeout,
		BufferSize:   cfg.LineBuffer,
	})

	mon := monitor.New(reg, src, ctl)

	// Start HTTP API server if enabled
	if cfg.APIEnabled {
		apiServer := httpserver.NewServer(cfg.APIAddr, mon)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		defer apiServer.Stop()
	}

	// Set up context and signal handling before errgroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now — not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		cleanupSocket(cfg.SocketPath)
		os.Exit(1)
	}()

	// Startup probe decides whether the monitor loop may start the
	// producer at all.
	if err := src.Probe(ctx); err != nil {
		log.Printf("logtapd: source probe failed: %v", err)
	}

	printStartupBanner(cfg, src.Usable())

	// Use errgroup for concurrent goroutine lifecycle management.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return mon.Run(gctx)
	})

	// Wait for context cancellation (from signal handler) in the errgroup
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("logtapd: errgroup exited with error: %v", err)
	}

	cancel()
	reg.CloseAll()

	// If we reach here, graceful shutdown succeeded within the deadline.
	// The signal goroutine (if active) dies with the process.
	signal.Stop(sigCh)

	return nil
}

// runCheck performs the post-start verification an init script runs: the
// source must yield output and a live daemon must answer on the socket.
func runCheck(cfg appConfig) error {
	src := logsource.NewSupervisor(logsource.Config{
		Path:         cfg.SourcePath,
		ProbeTimeout: cfg.ProbeTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.ProbeTimeout)
	defer cancel()

	if err := monitor.Bootstrap(ctx, src, cfg.SocketPath); err != nil {
		return err
	}

	fmt.Println("logtapd is up: source usable, control socket answering")
	return nil
}

func cleanupSocket(path string) {
	if path != "" {
		os.Remove(path)
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "logtap")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "logtapd.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}

func printStartupBanner(cfg appConfig, sourceUsable bool) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")
	cross := red.Render("●")

	logo := cyan.Bold(true).Render(`
    ╦  ╔═╗╔═╗╔╦╗╔═╗╔═╗
    ║  ║ ║║ ╦ ║ ╠═╣╠═╝
    ╩═╝╚═╝╚═╝ ╩ ╩ ╩╩`)

	ver := dim.Render("v" + version)

	var lines []string
	lines = append(lines, "")
	lines = append(lines, logo)
	lines = append(lines, "    "+ver)
	lines = append(lines, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator)
	lines = append(lines, "")

	// Gateway
	lines = append(lines, bold.Render("    Gateway"))
	lines = append(lines, "")

	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render(cfg.APIAddr)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, fmt.Sprintf("    %s  Unix Socket    %s", check, cyan.Render(shortenPath(cfg.SocketPath))))
	lines = append(lines, "")

	// Sinks
	lines = append(lines, bold.Render("    Sinks"))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("    %s  Event Log      %s", check, dim.Render(shortenPath(cfg.LogFile))))
	if cfg.DebugLog {
		lines = append(lines, fmt.Sprintf("    %s  Debug Log      %s", check, dim.Render(shortenPath(cfg.DebugLogFile))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Debug Log      %s", dot, dim.Render("disabled")))
	}

	lines = append(lines, "")

	// Source
	lines = append(lines, bold.Render("    Source"))
	lines = append(lines, "")

	if sourceUsable {
		lines = append(lines, fmt.Sprintf("    %s  Producer       %s", check, dim.Render(cfg.SourcePath)))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Producer       %s", cross, red.Render(cfg.SourcePath+" (unusable, logging disabled)")))
	}

	lines = append(lines, "")
	lines = append(lines, bold.Render("    Config"))
	lines = append(lines, "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "")
	lines = append(lines, separator)
	lines = append(lines, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"))
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
