package monitor

import (
	"context"
	"fmt"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/logsource"
)

// Bootstrap is the hosting process's startup health check: probe the
// log source directly and, when it proves usable, ping the daemon's
// control endpoint to confirm it is reachable. A probe failure means
// logging is permanently off for this environment; the ping then makes
// no sense and is skipped.
func Bootstrap(ctx context.Context, src *logsource.Supervisor, socketPath string) error {
	if err := src.Probe(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := control.Ping(socketPath); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}
