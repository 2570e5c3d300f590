package control_test

import (
	"bufio"
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logtap/logtap/internal/control"
)

func startTestServer(t *testing.T) (string, *control.Server) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	srv := control.NewServer(sockPath)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return sockPath, srv
}

// acceptAsync runs one acceptor task and reports its result on channels.
func acceptAsync(srv *control.Server) (<-chan net.Conn, <-chan error) {
	conns := make(chan net.Conn, 1)
	errs := make(chan error, 1)
	go func() {
		conn, err := srv.AcceptSubscriber()
		if err != nil {
			errs <- err
			return
		}
		conns <- conn
	}()
	return conns, errs
}

func TestCommandWire(t *testing.T) {
	var buf bytes.Buffer
	if err := control.WriteCommand(&buf, control.CmdSubscribe); err != nil {
		t.Fatalf("WriteCommand: %v", err)
	}
	if got, want := buf.Bytes(), []byte{0x01, 0x00, 0x00, 0x00}; !bytes.Equal(got, want) {
		t.Fatalf("wire bytes = %v, want %v", got, want)
	}

	cmd, err := control.ReadCommand(&buf)
	if err != nil {
		t.Fatalf("ReadCommand: %v", err)
	}
	if cmd != control.CmdSubscribe {
		t.Fatalf("command = %d, want %d", cmd, control.CmdSubscribe)
	}

	if _, err := control.ReadCommand(bytes.NewReader([]byte{0x01, 0x02})); err == nil {
		t.Fatal("expected error on short read")
	}
}

func TestSubscribeRoundtrip(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	conns, errs := acceptAsync(srv)

	sub, err := control.Subscribe(sockPath)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	var serverSide net.Conn
	select {
	case serverSide = <-conns:
	case err := <-errs:
		t.Fatalf("AcceptSubscriber: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor did not hand over the subscription")
	}
	defer serverSide.Close()

	want := "08-25 10:00:00.100  1000  2000 I am_proc_start: [0,1,2,com.app]\n"
	if _, err := serverSide.Write([]byte(want)); err != nil {
		t.Fatalf("server write: %v", err)
	}

	line, err := bufio.NewReader(sub).ReadString('\n')
	if err != nil {
		t.Fatalf("subscriber read: %v", err)
	}
	if line != want {
		t.Fatalf("subscriber line = %q, want %q", line, want)
	}
}

func TestAcceptServesNonSubscribeCodesThenSubscribe(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	conns, errs := acceptAsync(srv)

	// A liveness ping is accepted and closed; the acceptor keeps serving.
	if err := control.Ping(sockPath); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	// An unknown code is closed without effect.
	raw, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := control.WriteCommand(raw, 0xBEEF); err != nil {
		t.Fatalf("write unknown code: %v", err)
	}
	raw.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := raw.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected the daemon to close an unknown-code connection")
	}
	raw.Close()

	// The acceptor is still alive and takes the real subscription.
	sub, err := control.Subscribe(sockPath)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Close()

	select {
	case conn := <-conns:
		conn.Close()
	case err := <-errs:
		t.Fatalf("AcceptSubscriber: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor did not survive the non-subscribe connections")
	}
}

func TestAcceptSubscriberReturnsOnStop(t *testing.T) {
	_, srv := startTestServer(t)

	conns, errs := acceptAsync(srv)
	srv.Stop()

	select {
	case <-errs:
	case conn := <-conns:
		conn.Close()
		t.Fatal("acceptor returned a connection after Stop")
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor hung after Stop")
	}
}

func TestPingWithoutDaemon(t *testing.T) {
	if err := control.Ping(filepath.Join(t.TempDir(), "nonexistent.sock")); err == nil {
		t.Fatal("expected ping to fail with no daemon listening")
	}
}

func TestStartRemovesStaleSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "stale.sock")
	if err := os.WriteFile(sockPath, nil, 0644); err != nil {
		t.Fatalf("plant stale socket: %v", err)
	}

	srv := control.NewServer(sockPath)
	if err := srv.Start(); err != nil {
		t.Fatalf("start over stale socket: %v", err)
	}
	srv.Stop()
}

func TestStartRefusesLiveSocket(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	second := control.NewServer(sockPath)
	if err := second.Start(); err == nil {
		second.Stop()
		t.Fatal("expected second daemon on the same socket to be refused")
	}
}

func TestStopIdempotent(t *testing.T) {
	_, srv := startTestServer(t)
	srv.Stop()
	srv.Stop()
}
