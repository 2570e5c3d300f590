package logsource

import (
	"bufio"
	"io"
	"log"
	"os/exec"
	"sync"
	"syscall"
)

// Stream is one running instance of the producer with its line feed.
// The channel closes when the producer's stdout ends.
type Stream struct {
	cmd  *exec.Cmd
	ch   chan string
	done chan struct{}
	stop sync.Once
}

// Lines is the read-only feed of producer lines.
func (st *Stream) Lines() <-chan string { return st.ch }

// Alive reports whether the producer process still exists, via the null
// signal.
func (st *Stream) Alive() bool {
	if st.cmd.Process == nil {
		return false
	}
	return st.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// Stop terminates and reaps the producer. Idempotent; safe after the
// process has already exited on its own.
func (st *Stream) Stop() {
	st.stop.Do(func() {
		close(st.done)
		if st.cmd.Process != nil {
			_ = st.cmd.Process.Signal(syscall.SIGTERM)
		}
		_ = st.cmd.Wait()
	})
}

func (st *Stream) read(r io.Reader, maxLineSize int) {
	defer close(st.ch)

	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		select {
		case st.ch <- scanner.Text():
		case <-st.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case <-st.done: // reader torn down by Stop, not a producer fault
		default:
			log.Printf("logsource: producer read error: %v", err)
		}
	}
}
