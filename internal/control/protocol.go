package control

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

// Control channel wire protocol
//
// A client writes exactly one command code, a fixed-width little-endian
// uint32, immediately after connecting.
//
//   Code            Effect
//   ────────────    ─────────────────────────────────────────────────
//   CmdNoop         accepted and closed; pure liveness probe
//   CmdSubscribe    the connection becomes the process-event sink and
//                   receives newline-terminated lines until either
//                   side closes it
//   anything else   closed without effect
//
// There is no response framing: a subscriber reads raw lines, a pinger
// reads nothing.
const (
	CmdNoop uint32 = iota
	CmdSubscribe
)

// WriteCommand sends one command code over the connection.
func WriteCommand(w io.Writer, cmd uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], cmd)
	_, err := w.Write(buf[:])
	return err
}

// ReadCommand reads one command code from the connection.
func ReadCommand(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/logtap/logtapd.sock, falling back to
// ~/.local/state/logtap/logtapd.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "logtap", "logtapd.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/logtapd.sock"
	}
	return filepath.Join(home, ".local", "state", "logtap", "logtapd.sock")
}
