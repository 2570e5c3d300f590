// Package logsource owns the external log producer: spawning it, probing
// whether it yields output at all, watching its liveness, and exposing its
// stdout as a line channel.
package logsource

import "time"

const (
	// DefaultBuffer is the default channel buffer size for producer lines.
	DefaultBuffer = 50_000

	// DefaultMaxLineSize is the default maximum size (in bytes) of a single line.
	DefaultMaxLineSize = 1024 * 1024 // 1MB

	// DefaultProbeTimeout bounds the wait for the probe's first byte.
	DefaultProbeTimeout = 3 * time.Second
)

// Config holds tunable parameters for the supervised producer.
type Config struct {
	Path         string   // producer binary
	ProbeArgs    []string // minimal invocation used by Probe; usually empty
	StartArgs    []string // full streaming invocation used by Start
	ProbeTimeout time.Duration
	BufferSize   int
	MaxLineSize  int
}

// StartArgs assembles the full streaming invocation: every configured
// buffer, threadtime output, and source-side filtering down to the event
// marker and the daemon's own tag.
func StartArgs(buffers []string, marker, tag string) []string {
	args := make([]string, 0, 2*len(buffers)+6)
	for _, b := range buffers {
		args = append(args, "-b", b)
	}
	args = append(args, "-v", "threadtime", "-s", marker, tag, "*:F")
	return args
}
