package logsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"
)

// ErrUnusable is returned once the source has been disabled for the rest
// of the process lifetime.
var ErrUnusable = errors.New("log source unusable")

// Supervisor owns the producer binary and the process-lifetime readiness
// flag. The flag starts true and can only go false: a failed probe
// disables the source permanently.
type Supervisor struct {
	cfg    Config
	usable atomic.Bool
}

// NewSupervisor builds a supervisor with the readiness flag set.
func NewSupervisor(cfg Config) *Supervisor {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBuffer
	}
	if cfg.MaxLineSize <= 0 {
		cfg.MaxLineSize = DefaultMaxLineSize
	}
	s := &Supervisor{cfg: cfg}
	s.usable.Store(true)
	return s
}

// Name is the producer's short name for logs and status surfaces.
func (s *Supervisor) Name() string { return filepath.Base(s.cfg.Path) }

// Usable reports whether the source is still considered workable.
func (s *Supervisor) Usable() bool { return s.usable.Load() }

// Probe spawns the producer in its minimal form and requires one byte of
// output within the probe timeout. Failure clears the readiness flag for
// the rest of the process lifetime. The probe process is always
// terminated and reaped before returning.
func (s *Supervisor) Probe(ctx context.Context) error {
	if !s.usable.Load() {
		return ErrUnusable
	}
	if err := s.probe(ctx); err != nil {
		s.usable.Store(false)
		log.Printf("logsource: probe failed, source disabled: %v", err)
		return fmt.Errorf("probe %s: %w", s.cfg.Path, err)
	}
	return nil
}

func (s *Supervisor) probe(ctx context.Context) error {
	cmd := exec.Command(s.cfg.Path, s.cfg.ProbeArgs...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	defer reap(cmd)

	read := make(chan error, 1)
	go func() {
		one := make([]byte, 1)
		_, rerr := io.ReadFull(stdout, one)
		read <- rerr
	}()

	timer := time.NewTimer(s.cfg.ProbeTimeout)
	defer timer.Stop()
	select {
	case rerr := <-read:
		if rerr != nil {
			return fmt.Errorf("no output: %w", rerr)
		}
		return nil
	case <-timer.C:
		return errors.New("no output within probe timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start spawns the producer in full streaming mode and returns its line
// stream. The caller owns the stream and must Stop it to reap the
// process.
func (s *Supervisor) Start() (*Stream, error) {
	if !s.usable.Load() {
		return nil, ErrUnusable
	}
	cmd := exec.Command(s.cfg.Path, s.cfg.StartArgs...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.cfg.Path, err)
	}

	st := &Stream{
		cmd:  cmd,
		ch:   make(chan string, s.cfg.BufferSize),
		done: make(chan struct{}),
	}
	go st.read(stdout, s.cfg.MaxLineSize)
	log.Printf("logsource: producer %s started, pid=%d", s.Name(), cmd.Process.Pid)
	return st, nil
}

// reap terminates the process and collects its exit status. Wait also
// closes the stdout pipe, unblocking any pending read.
func reap(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
	_ = cmd.Wait()
}
