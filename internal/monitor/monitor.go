// Package monitor drives the daemon's dispatch loop: it consumes lines
// from the supervised producer, fans them out through the listener
// registry, arms the subscriber acceptor, and owns the producer's
// restart-or-disable lifecycle.
package monitor

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/logtap/logtap/internal/control"
	"github.com/logtap/logtap/internal/logparse"
	"github.com/logtap/logtap/internal/logsource"
	"github.com/logtap/logtap/internal/model"
	"github.com/logtap/logtap/internal/registry"
)

// Monitor is the dispatch loop plus the shared state it mediates. The
// registry and control server are shared with the acceptor task; the
// producer stream is owned exclusively by the loop.
type Monitor struct {
	reg *registry.Registry
	src *logsource.Supervisor
	ctl *control.Server

	lines    atomic.Uint64
	skipped  atomic.Uint64
	restarts atomic.Uint64

	mu      sync.Mutex
	state   model.MonitorState
	stream  *logsource.Stream
	started time.Time
}

// New wires the dispatch loop to its collaborators.
func New(reg *registry.Registry, src *logsource.Supervisor, ctl *control.Server) *Monitor {
	return &Monitor{
		reg:   reg,
		src:   src,
		ctl:   ctl,
		state: model.StateDisabled,
	}
}

// Run executes the loop until the source proves unusable (terminal) or
// ctx is cancelled at process shutdown. An unusable source is not an
// error: the loop closes every target, records the disabled state, and
// returns nil; the daemon itself stays up.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	m.started = time.Now()
	m.mu.Unlock()

	ranOnce := false
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !m.src.Usable() {
			m.reg.CloseAll()
			m.setState(model.StateDisabled, nil)
			log.Printf("monitor: log source unusable, logging disabled")
			return nil
		}

		stream, err := m.src.Start()
		if err != nil {
			log.Printf("monitor: producer start failed: %v", err)
		} else {
			if ranOnce {
				m.restarts.Add(1)
				log.Printf("monitor: producer restarted")
			}
			ranOnce = true
			m.setState(model.StateRunning, stream)

			shutdown := m.consume(ctx, stream)
			stream.Stop()
			if shutdown {
				return ctx.Err()
			}
			log.Printf("monitor: producer stream ended")
		}

		m.setState(model.StateRestarting, nil)
		// A failed re-probe clears the readiness flag; the loop top
		// turns that into the terminal teardown.
		_ = m.src.Probe(ctx)
	}
}

// consume drains one producer stream. Returns true when ctx ended the
// loop, false when the producer died or closed its stream.
func (m *Monitor) consume(ctx context.Context, stream *logsource.Stream) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case line, ok := <-stream.Lines():
			if !ok {
				return false
			}
			if logparse.IsSeparator(line) {
				m.skipped.Add(1)
				continue
			}
			m.lines.Add(1)
			if m.reg.Dispatch(line) {
				go m.acceptOne()
			}
			if !stream.Alive() {
				log.Printf("monitor: producer died mid-stream")
				return false
			}
		}
	}
}

// acceptOne is the acceptor task body: wait for the next subscription
// on the control endpoint and install it. At most one instance runs at
// a time; Dispatch decides when to arm the next one.
func (m *Monitor) acceptOne() {
	conn, err := m.ctl.AcceptSubscriber()
	if err != nil {
		m.reg.DisarmAcceptor()
		return
	}
	m.reg.InstallSubscriber(conn)
	log.Printf("monitor: subscriber connected")
}

func (m *Monitor) setState(state model.MonitorState, stream *logsource.Stream) {
	m.mu.Lock()
	m.state = state
	m.stream = stream
	m.mu.Unlock()
}

// Stats assembles the daemon status snapshot.
func (m *Monitor) Stats() model.DaemonStats {
	m.mu.Lock()
	state := m.state
	stream := m.stream
	started := m.started
	m.mu.Unlock()

	slots, armed := m.reg.Snapshot()
	return model.DaemonStats{
		State:         state,
		SourceUsable:  m.src.Usable(),
		SourceAlive:   stream != nil && stream.Alive(),
		StartedAt:     started,
		Lines:         m.lines.Load(),
		Skipped:       m.skipped.Load(),
		Restarts:      m.restarts.Load(),
		AcceptorArmed: armed,
		Slots:         slots,
	}
}
