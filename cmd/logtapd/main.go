package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/logsource"

	"github.com/spf13/viper"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool
	var checkOnly bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/logtap/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.BoolVar(&checkOnly, "check", false, "verify the log source and a running daemon, then exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("Logtap - Process Event Log Monitor\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if checkOnly {
		if err := runCheck(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runDaemon(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultLogFile := filepath.Join(home, ".local", "share", "logtap", "logtap.log")
	defaultDebugLogFile := filepath.Join(home, ".local", "share", "logtap", "debug.log")

	v := viper.New()
	v.SetEnvPrefix("LOGTAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("log-file", defaultLogFile)
	v.SetDefault("debug-log", false)
	v.SetDefault("debug-log-file", defaultDebugLogFile)
	v.SetDefault("socket-path", control.DefaultSocketPath())
	v.SetDefault("source-path", defaultSourcePath)
	v.SetDefault("source-buffers", defaultSourceBuffers)
	v.SetDefault("event-marker", defaultEventMarker)
	v.SetDefault("daemon-tag", defaultDaemonTag)
	v.SetDefault("probe-timeout", defaultProbeTimeout)
	v.SetDefault("line-buffer", logsource.DefaultBuffer)
	v.SetDefault("host", defaultBindHost)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultConfigPath := filepath.Join(home, ".config", "logtap", "config.yml")
		v.SetConfigFile(defaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.ProbeTimeout <= 0 {
		return cfg, fmt.Errorf("invalid probe-timeout: %s", cfg.ProbeTimeout)
	}
	if cfg.LineBuffer <= 0 {
		return cfg, fmt.Errorf("invalid line-buffer: %d", cfg.LineBuffer)
	}
	if cfg.EventMarker == "" {
		return cfg, errors.New("event-marker must not be empty")
	}
	if cfg.DaemonTag == "" {
		return cfg, errors.New("daemon-tag must not be empty")
	}
	if len(cfg.SourceBuffers) == 0 {
		return cfg, errors.New("source-buffers must name at least one buffer")
	}

	// Expand ~ in file paths
	for _, p := range []*string{&cfg.LogFile, &cfg.DebugLogFile, &cfg.SocketPath, &cfg.SourcePath} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
