package control

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Server owns the daemon's control socket. The socket is bound once at
// startup; connection acceptance is driven by the dispatch loop, which
// runs at most one acceptor task at a time.
type Server struct {
	socketPath string
	listener   net.Listener
}

// NewServer creates a control server for the given socket path.
func NewServer(socketPath string) *Server {
	return &Server{socketPath: socketPath}
}

// Start binds the Unix socket.
func (s *Server) Start() error {
	// Ensure the parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("control: mkdir: %w", err)
	}

	// Remove stale socket if it exists.
	if _, err := os.Stat(s.socketPath); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond)
		if dialErr != nil {
			// Socket file exists but nobody is listening — stale.
			os.Remove(s.socketPath)
		} else {
			conn.Close()
			return fmt.Errorf("control: another daemon is already listening on %s", s.socketPath)
		}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("control: listen: %w", err)
	}
	s.listener = ln

	log.Printf("control: listening on %s", s.socketPath)
	return nil
}

// Stop closes the listener and removes the socket file. Any blocked
// AcceptSubscriber call returns with an error.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// AcceptSubscriber serves the endpoint until one connection subscribes:
// it accepts a connection, reads its command code, and closes anything
// that is not a subscription before accepting again. The winning
// connection is returned still open, ready to carry event lines. An
// error is returned only when the listener has been shut down.
func (s *Server) AcceptSubscriber() (net.Conn, error) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil, err
			}
			log.Printf("control: accept error: %v", err)
			// Continue on transient errors (e.g., fd limit) instead of
			// giving up the acceptor slot.
			continue
		}

		cmd, err := ReadCommand(conn)
		if err != nil {
			log.Printf("control: command read failed: %v", err)
			conn.Close()
			continue
		}

		switch cmd {
		case CmdSubscribe:
			return conn, nil
		case CmdNoop:
			conn.Close()
		default:
			log.Printf("control: unknown command %d", cmd)
			conn.Close()
		}
	}
}
