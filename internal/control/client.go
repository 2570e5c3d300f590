package control

import (
	"fmt"
	"net"
	"time"
)

const dialTimeout = 5 * time.Second

// Ping connects to the daemon's control socket and sends the no-op
// code. The daemon accepts and discards the connection; a successful
// write proves the endpoint is held by a live daemon.
func Ping(socketPath string) error {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("control: dial: %w", err)
	}
	defer conn.Close()

	if err := WriteCommand(conn, CmdNoop); err != nil {
		return fmt.Errorf("control: send: %w", err)
	}
	return nil
}

// Subscribe connects to the daemon's control socket and registers as
// the dynamic process-event subscriber. The returned connection carries
// newline-terminated lines until either side closes it.
func Subscribe(socketPath string) (net.Conn, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("control: dial: %w", err)
	}
	if err := WriteCommand(conn, CmdSubscribe); err != nil {
		conn.Close()
		return nil, fmt.Errorf("control: send: %w", err)
	}
	return conn, nil
}
