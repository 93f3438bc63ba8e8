// Package library implements the Library Façade (§4.4): the in-process API
// that spawns an Agent subprocess per console session and exposes its
// control operations as ordinary Go method calls over the named-pipe
// transport, so an embedding program never has to speak wire.MessageKind
// itself.
package library

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/conbridge/conbridge/internal/observability"
	"github.com/conbridge/conbridge/internal/transport"
	"github.com/conbridge/conbridge/internal/wire"
)

// connectTimeout is the §5 reference figure for connect_named_pipe: how
// long Open waits for the freshly spawned agent to accept the control pipe
// connection before giving up.
const connectTimeout = 3000 * time.Millisecond

// AgentPath is the path to the conbridge-agent binary Open spawns. It is a
// package variable rather than a Library field so tests can point it at a
// stub binary without threading an option through every call site; most
// callers leave it at its default.
var AgentPath = "conbridge-agent"

// Library spawns and tracks Agent subprocesses. The zero value is usable.
type Library struct {
	// consoleCounter feeds NewNames' per-session counter. Atomically
	// incremented, kept on the Library value rather than a package global
	// (no free global — see counter.go) so two independent Library values
	// in the same process don't share a session-numbering sequence.
	consoleCounter uint64
}

// Session is one open Agent connection: a control pipe for request/reply
// operations and a data pipe carrying the console's byte stream. Both
// pipes are listened on by the Agent (transport.ControlServer/DataServer
// are documented as the Agent-side endpoints); the Library dials both as
// a client.
type Session struct {
	id       string
	cmd      *exec.Cmd
	control  *transport.ControlClient
	dataConn net.Conn
	names    transport.Names
}

func (l *Library) Open(ctx context.Context, cols, rows int) (*Session, error) {
	logger := observability.FromContext(ctx)

	counter := l.nextCounter()
	names, err := transport.NewNames("conbridge", os.Getpid(), counter)
	if err != nil {
		return nil, fmt.Errorf("library: resolve pipe names: %w", err)
	}

	sessionID := newSessionID()
	logger.Info("opening session", "session_id", sessionID, "control", names.Control, "data", names.Data)

	cmd := exec.CommandContext(ctx, AgentPath,
		names.Control, names.Data, fmt.Sprintf("%d", cols), fmt.Sprintf("%d", rows))
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("library: start agent: %w", err)
	}

	control, err := transport.DialControl(names.Control, connectTimeout)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("library: connect control pipe: %w", err)
	}

	if err := control.Ping(); err != nil {
		control.Close()
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("library: handshake: %w", err)
	}

	dataConn, err := transport.DialData(names.Data, connectTimeout)
	if err != nil {
		control.Close()
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("library: connect data pipe: %w", err)
	}

	return &Session{
		id:       sessionID,
		cmd:      cmd,
		control:  control,
		dataConn: dataConn,
		names:    names,
	}, nil
}

// ID returns the session's log-correlation identifier.
func (s *Session) ID() string { return s.id }

// Data returns the full-duplex data-pipe connection for the Adapter to pump
// bytes over.
func (s *Session) Data() net.Conn { return s.dataConn }

// StartProcess requests that the agent spawn app (or, if empty, the first
// token of cmdline) with cmdline as its full command line, cwd as its
// working directory, and env as its environment block.
func (s *Session) StartProcess(app, cmdline, cwd string, env []string) error {
	return s.call(wire.StartProcess, wire.StartProcessMessage{
		App:     app,
		Cmdline: cmdline,
		Cwd:     cwd,
		Env:     InheritEnv(env),
	})
}

// SetSize requests a console buffer/window resize.
func (s *Session) SetSize(cols, rows int) error {
	return s.call(wire.SetSize, wire.SetSizeMessage{Cols: uint32(cols), Rows: uint32(rows)})
}

// SetConsoleMode requests a console input-mode change (e.g. toggling
// ENABLE_PROCESSED_INPUT).
func (s *Session) SetConsoleMode(mode uint32) error {
	return s.call(wire.SetConsoleMode, wire.SetConsoleModeMessage{Mode: mode})
}

// GetExitCode returns the child process's exit code and whether it has
// actually exited yet (a still-running child reports stillActive, §6).
func (s *Session) GetExitCode() (code int, exited bool, err error) {
	reply, err := s.control.Call(wire.GetExitCode, wire.GetExitCodeMessage{})
	if err != nil {
		return 0, false, fmt.Errorf("library: GetExitCode: %w", err)
	}
	status, err := wire.DecodeStatusReply(reply)
	if err != nil {
		return 0, false, err
	}
	if status == stillActiveStatus {
		return 0, false, nil
	}
	return int(status), true, nil
}

// GetProcessId returns the spawned child's process ID.
func (s *Session) GetProcessId() (int, error) {
	reply, err := s.control.Call(wire.GetProcessId, wire.GetProcessIdMessage{})
	if err != nil {
		return 0, fmt.Errorf("library: GetProcessId: %w", err)
	}
	status, err := wire.DecodeStatusReply(reply)
	if err != nil {
		return 0, err
	}
	return int(status), nil
}

// Close tears the session down: closes both pipes and waits for the agent
// subprocess to exit.
func (s *Session) Close() error {
	var errs []error
	if s.dataConn != nil {
		errs = append(errs, s.dataConn.Close())
	}
	errs = append(errs, s.control.Close())
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) call(kind wire.MessageKind, msg any) error {
	reply, err := s.control.Call(kind, msg)
	if err != nil {
		return fmt.Errorf("library: %s: %w", kind, err)
	}
	status, err := wire.DecodeStatusReply(reply)
	if err != nil {
		return err
	}
	if status != wire.StatusOK {
		return fmt.Errorf("library: %s: agent returned status %d", kind, status)
	}
	return nil
}

// stillActiveStatus mirrors the real Win32 STILL_ACTIVE sentinel (§6): the
// agent replies with this value for GetExitCode while the child is still
// running.
const stillActiveStatus = 0x103
