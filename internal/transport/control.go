package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/conbridge/conbridge/internal/wire"
)

// ControlHandler dispatches one decoded control-pipe request and returns
// the reply payload to write back (§4.3 "Agent loop").
type ControlHandler func(kind wire.MessageKind, msg any) (replyPayload []byte, err error)

// ControlServer is the Agent-side control pipe: it accepts a single client
// connection, then reads one frame at a time, dispatches it, and writes
// exactly one reply before reading the next — enforcing the §8 invariant
// "every control request receives exactly one reply before the next
// request is issued".
type ControlServer struct {
	listener net.Listener
	handler  ControlHandler
}

// ListenControl creates the control pipe's listening socket at path,
// removing any stale socket file left by a previous run.
func ListenControl(path string, handler ControlHandler) (*ControlServer, error) {
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("transport: listen control pipe: %w", err)
	}

	return &ControlServer{listener: ln, handler: handler}, nil
}

// Addr returns the control pipe's socket path.
func (s *ControlServer) Addr() string {
	return s.listener.Addr().String()
}

// Close closes the listening socket.
func (s *ControlServer) Close() error {
	return s.listener.Close()
}

// Serve accepts the single client connection and services requests until
// the connection is closed or ctx is cancelled.
func (s *ControlServer) Serve(ctx context.Context) error {
	conn, err := s.listener.Accept()
	if err != nil {
		return fmt.Errorf("transport: accept control pipe: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		payload, err := wire.ReadFrame(conn)
		if err != nil {
			return err
		}

		kind, msg, err := wire.DecodeRequest(payload)
		if err != nil {
			return err
		}

		reply, err := s.handler(kind, msg)
		if err != nil {
			return err
		}

		if err := wire.WriteFrame(conn, reply); err != nil {
			return err
		}
	}
}

// ControlClient is the Library-side control pipe: a single in-flight
// request/response call at a time. The mutex turns concurrent misuse into
// serialization rather than a wire-level protocol violation.
type ControlClient struct {
	conn net.Conn
	mu   sync.Mutex
}

// DialControl connects to the control pipe at path with the given
// connect timeout (§5, reference 3000 ms for `connect_named_pipe`).
func DialControl(path string, timeout time.Duration) (*ControlClient, error) {
	deadline := time.Now().Add(timeout)

	var lastErr error
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("unix", path, timeout)
		if err == nil {
			return &ControlClient{conn: conn}, nil
		}
		lastErr = err
		time.Sleep(10 * time.Millisecond)
	}

	return nil, fmt.Errorf("transport: dial control pipe %s: %w", path, lastErr)
}

// Close closes the control connection.
func (c *ControlClient) Close() error {
	return c.conn.Close()
}

// Call sends one request and waits for its reply, holding the client mutex
// for the duration to enforce single-in-flight-request semantics.
func (c *ControlClient) Call(kind wire.MessageKind, msg any) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := wire.EncodeRequest(kind, msg)
	if err != nil {
		return nil, err
	}

	if err := wire.WriteFrame(c.conn, payload); err != nil {
		return nil, fmt.Errorf("transport: write request: %w", err)
	}

	reply, err := wire.ReadFrame(c.conn)
	if err != nil {
		return nil, fmt.Errorf("transport: read reply: %w", err)
	}

	return reply, nil
}

// Ping performs the handshake (§4.3): send Ping, expect a zero u32 reply.
func (c *ControlClient) Ping() error {
	reply, err := c.Call(wire.Ping, wire.PingMessage{})
	if err != nil {
		return err
	}

	status, err := wire.DecodeStatusReply(reply)
	if err != nil {
		return err
	}

	if status != wire.StatusOK {
		return fmt.Errorf("transport: handshake ping returned non-zero word %d", status)
	}

	return nil
}
