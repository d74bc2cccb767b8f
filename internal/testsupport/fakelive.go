package testsupport

import (
	"encoding/json"
	"net"
	"sync"
	"testing"

	"livebridge/internal/live"
)

// RecordedCommand captures one request received by a FakeLive server.
type RecordedCommand struct {
	Type   string
	Params json.RawMessage
}

// FakeLive is an in-process stand-in for the Ableton Live remote socket. It
// speaks the same newline-delimited JSON exchange and records every command
// it receives so tests can assert on exact payloads.
type FakeLive struct {
	listener net.Listener
	respond  func(RecordedCommand) live.Response

	mu       sync.Mutex
	commands []RecordedCommand
	conns    []net.Conn
	accepted int
}

// StartFakeLive listens on a loopback port and serves connections until the
// test ends. A nil respond handler answers every command with an empty
// success result.
func StartFakeLive(t testing.TB, respond func(RecordedCommand) live.Response) *FakeLive {
	t.Helper()

	if respond == nil {
		respond = func(RecordedCommand) live.Response {
			return live.Response{Status: live.StatusSuccess, Result: json.RawMessage(`{}`)}
		}
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen for fake live: %v", err)
	}

	f := &FakeLive{listener: listener, respond: respond}
	go f.acceptLoop()
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// Addr returns the host:port the fake server is listening on.
func (f *FakeLive) Addr() string {
	return f.listener.Addr().String()
}

// Commands returns a copy of every command received so far, in arrival order.
func (f *FakeLive) Commands() []RecordedCommand {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedCommand, len(f.commands))
	copy(out, f.commands)
	return out
}

// ConnectionCount reports how many connections have been accepted in total,
// including ones that have since closed.
func (f *FakeLive) ConnectionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accepted
}

// DropConnections closes every active connection without stopping the
// listener, so clients observe a mid-session disconnect.
func (f *FakeLive) DropConnections() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, conn := range f.conns {
		_ = conn.Close()
	}
	f.conns = nil
}

// Close stops the listener and tears down any active connections.
func (f *FakeLive) Close() error {
	err := f.listener.Close()
	f.DropConnections()
	return err
}

func (f *FakeLive) acceptLoop() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		f.mu.Lock()
		f.conns = append(f.conns, conn)
		f.accepted++
		f.mu.Unlock()
		go f.serve(conn)
	}
}

func (f *FakeLive) serve(conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req struct {
			Type   string          `json:"type"`
			Params json.RawMessage `json:"params"`
		}
		if err := dec.Decode(&req); err != nil {
			return
		}

		cmd := RecordedCommand{Type: req.Type, Params: req.Params}
		f.mu.Lock()
		f.commands = append(f.commands, cmd)
		f.mu.Unlock()

		if err := enc.Encode(f.respond(cmd)); err != nil {
			return
		}
	}
}
