package model

import "time"

// Shared defaults used by both the daemon and the watch CLI.
const (
	DefaultLineBuffer   = 1000
	DefaultProbeTimeout = 3 * time.Second
	DefaultTheme        = "default"

	// DefaultEventMarker selects process-start event lines.
	DefaultEventMarker = "am_proc_start"

	// DefaultDaemonTag selects the daemon's own log lines for persistence.
	DefaultDaemonTag = "Logtap"
)
