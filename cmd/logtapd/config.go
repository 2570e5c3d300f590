package main

import (
	"time"

	"github.com/logtap/logtap/internal/model"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 7380
	defaultSourcePath   = "logcat"
	defaultEventMarker  = model.DefaultEventMarker
	defaultDaemonTag    = model.DefaultDaemonTag
	defaultProbeTimeout = model.DefaultProbeTimeout
)

// defaultSourceBuffers are the producer ring buffers tapped in full mode.
var defaultSourceBuffers = []string{"events", "main", "crash"}

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	LogFile       string        `mapstructure:"log-file"`
	DebugLog      bool          `mapstructure:"debug-log"`
	DebugLogFile  string        `mapstructure:"debug-log-file"`
	SocketPath    string        `mapstructure:"socket-path"`
	SourcePath    string        `mapstructure:"source-path"`
	SourceBuffers []string      `mapstructure:"source-buffers"`
	EventMarker   string        `mapstructure:"event-marker"`
	DaemonTag     string        `mapstructure:"daemon-tag"`
	ProbeTimeout  time.Duration `mapstructure:"probe-timeout"`
	LineBuffer    int           `mapstructure:"line-buffer"`
	Host          string        `mapstructure:"host"`
	APIEnabled    bool          `mapstructure:"api-enabled"`
	APIPort       int           `mapstructure:"api-port"`
	APIAddr       string        `mapstructure:"api-addr"`
	ConfigPath    string        `mapstructure:"-"` // not from config file
}
