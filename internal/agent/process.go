package agent

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// Process wraps the child program the Agent spawns on behalf of
// StartProcess (§6), running it under a PTY so its own output can be fed
// into the console.Grid exactly as if it had opened a real console.
// The start/resize functions are injectable, following the teacher's
// ClaudeExecutor pattern in internal/harness/claude_executor.go, so
// tests can substitute a fake without spawning a real child.
type Process struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	ptmx     *os.File
	pgid     int
	exitCode int
	exited   bool
	exitedCh chan struct{}

	startWithSize func(*exec.Cmd, *pty.Winsize) (*os.File, error)
	setSize       func(*os.File, *pty.Winsize) error
}

// NewProcess returns a Process wired to the real creack/pty functions.
func NewProcess() *Process {
	return &Process{
		exitedCh:      make(chan struct{}),
		startWithSize: pty.StartWithSize,
		setSize:       pty.Setsize,
	}
}

// Start spawns the child described by a StartProcess request (§6): app is
// the executable path (may be empty, in which case it's derived from
// cmdline's first token, matching CreateProcess's own fallback), cmdline
// is the full command line, cwd and env follow os/exec conventions.
func (p *Process) Start(app, cmdline, cwd string, env []string, cols, rows int) error {
	name, args, err := splitCommandLine(app, cmdline)
	if err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = cwd
	if len(env) > 0 {
		cmd.Env = env
	} else {
		cmd.Env = os.Environ()
	}

	ptmx, err := p.startWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return fmt.Errorf("agent: start child process: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.ptmx = ptmx
	p.pgid = 0
	if cmd.Process != nil && cmd.Process.Pid > 0 {
		if pgid, pgErr := syscall.Getpgid(cmd.Process.Pid); pgErr == nil {
			p.pgid = pgid
		}
	}
	p.mu.Unlock()

	go p.wait()

	return nil
}

func (p *Process) wait() {
	err := p.cmd.Wait()

	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}

	p.mu.Lock()
	p.exitCode = code
	p.exited = true
	p.mu.Unlock()

	close(p.exitedCh)
}

// SetSize resizes the child's PTY (§6 SetSize's process-facing half — the
// console buffer/window resize itself is internal/scraper.Resize).
func (p *Process) SetSize(cols, rows int) error {
	p.mu.Lock()
	ptmx := p.ptmx
	p.mu.Unlock()
	if ptmx == nil {
		return fmt.Errorf("agent: SetSize before process start")
	}
	return p.setSize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// ExitCode reports the child's exit code and whether it has exited yet
// (§6 GetExitCode: "still running" is a distinct reply case).
func (p *Process) ExitCode() (code int, exited bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, p.exited
}

// Pgid returns the child's process group ID, or 0 if it hasn't started.
func (p *Process) Pgid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pgid
}

// Pid returns the child's process ID.
func (p *Process) Pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Output returns the PTY master's read side — the bytes the Agent feeds
// into console.Feeder.
func (p *Process) Output() io.Reader {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ptmx
}

// Input returns the PTY master's write side — where translated key
// events and passthrough bytes are written for the child to read.
func (p *Process) Input() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ptmx
}

// Close terminates the child's process group and releases the PTY,
// mirroring the teacher's closePTY in claude_executor.go.
func (p *Process) Close() error {
	p.mu.Lock()
	ptmx := p.ptmx
	cmd := p.cmd
	pgid := p.pgid
	p.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		if pgid > 0 {
			_ = syscall.Kill(-pgid, syscall.SIGHUP)
		} else {
			_ = cmd.Process.Kill()
		}
	}

	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}

// splitCommandLine derives the executable name and argument list from a
// StartProcess request's app/cmdline pair. If app is empty, the
// executable is the first whitespace-separated (quote-aware) token of
// cmdline, matching how a real console host falls back to parsing the
// command line itself when the caller passes no explicit application
// name.
func splitCommandLine(app, cmdline string) (name string, args []string, err error) {
	tokens, err := tokenizeCommandLine(cmdline)
	if err != nil {
		return "", nil, err
	}

	if app != "" {
		name = app
		if len(tokens) > 0 {
			args = tokens[1:]
		}
		return name, args, nil
	}

	if len(tokens) == 0 {
		return "", nil, fmt.Errorf("agent: StartProcess: empty app and cmdline")
	}
	return tokens[0], tokens[1:], nil
}

// tokenizeCommandLine splits a command line on whitespace, honoring
// double-quoted spans (the common subset of Windows command-line
// quoting relevant here — this Agent's child is spawned via os/exec, not
// re-parsed by a Windows CRT).
func tokenizeCommandLine(cmdline string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	haveToken := false

	flush := func() {
		if haveToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			haveToken = false
		}
	}

	for _, r := range cmdline {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			haveToken = true
		case r == ' ' || r == '\t':
			if inQuotes {
				cur.WriteRune(r)
			} else {
				flush()
			}
		default:
			cur.WriteRune(r)
			haveToken = true
		}
	}
	flush()

	if inQuotes {
		return nil, fmt.Errorf("agent: unterminated quote in command line %q", cmdline)
	}
	return tokens, nil
}
