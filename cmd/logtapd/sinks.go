package main

import (
	"io"

	"github.com/logtap/logtap/internal/registry"
	"github.com/logtap/logtap/internal/sink"
)

// SinkPlugin is a small plugin primitive for wiring file sinks into
// registry slots.
type SinkPlugin interface {
	Name() string
	Enabled() bool
	Open() (registry.Slot, io.WriteCloser, error)
}

// SinkPluginConfig defines runtime sink selection.
type SinkPluginConfig struct {
	LogFile      string
	DebugEnabled bool
	DebugLogFile string
}

func buildSinkPlugins(cfg SinkPluginConfig) []SinkPlugin {
	plugins := make([]SinkPlugin, 0, 2)
	plugins = append(plugins, persistSinkPlugin{path: cfg.LogFile})
	plugins = append(plugins, debugSinkPlugin{
		path:    cfg.DebugLogFile,
		enabled: cfg.DebugEnabled,
	})
	return plugins
}

// persistSinkPlugin owns the primary event log. The previous generation
// is kept as a one-deep .bak backup.
type persistSinkPlugin struct {
	path string
}

func (p persistSinkPlugin) Name() string { return "persist" }

func (p persistSinkPlugin) Enabled() bool { return p.path != "" }

func (p persistSinkPlugin) Open() (registry.Slot, io.WriteCloser, error) {
	f, err := sink.Open(p.path, true)
	if err != nil {
		return registry.SlotPersist, nil, err
	}
	return registry.SlotPersist, f, nil
}

// debugSinkPlugin captures everything the events slot does not match.
// Off unless debug logging is configured on.
type debugSinkPlugin struct {
	path    string
	enabled bool
}

func (p debugSinkPlugin) Name() string { return "debug" }

func (p debugSinkPlugin) Enabled() bool { return p.enabled && p.path != "" }

func (p debugSinkPlugin) Open() (registry.Slot, io.WriteCloser, error) {
	f, err := sink.Open(p.path, false)
	if err != nil {
		return registry.SlotDebug, nil, err
	}
	return registry.SlotDebug, f, nil
}
