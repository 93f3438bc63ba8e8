// Command conbridge-agent is the Agent process (§6): it is spawned by the
// Library with the named pipes to listen on and the console's initial
// size, and it never runs interactively on its own except under
// --show-input.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conbridge/conbridge/internal/agent"
	"github.com/conbridge/conbridge/internal/buildinfo"
	"github.com/conbridge/conbridge/internal/config"
	clierrors "github.com/conbridge/conbridge/internal/errors"
	"github.com/conbridge/conbridge/internal/observability"
	"github.com/conbridge/conbridge/internal/paths"
	"github.com/conbridge/conbridge/internal/transport"
	"github.com/conbridge/conbridge/internal/wire"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	buildinfo.Version = version
	buildinfo.Commit = commit

	if err := newRootCmd().Execute(); err != nil {
		var cliErr *clierrors.CLIError
		if clierrors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, cliErr.Error())
			if cliErr.Hint != "" {
				fmt.Fprintln(os.Stderr, cliErr.Hint)
			}
			return cliErr.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return clierrors.ExitGeneral
	}
	return clierrors.ExitSuccess
}

func newRootCmd() *cobra.Command {
	var (
		showVersion   bool
		showInput     bool
		withMouse     bool
		createDesktop bool
	)

	cmd := &cobra.Command{
		Use:           "conbridge-agent <controlPipeName> <dataPipeName> <cols> <rows>",
		Short:         "Console-subsystem-emulating child process for conbridge",
		Args:          cobra.MaximumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("conbridge-agent %s (%s)\n", buildinfo.Version, buildinfo.Commit)
				return nil
			}

			if createDesktop {
				if err := agent.ApplyDesktop(""); err != nil {
					return clierrors.Wrap(clierrors.ExitSetup, "create desktop", err)
				}
			}

			if showInput {
				return runShowInput(cmd.Context(), withMouse)
			}

			if len(args) != 4 {
				return clierrors.New(clierrors.ExitUsage,
					"expected exactly 4 arguments: <controlPipeName> <dataPipeName> <cols> <rows>")
			}

			return runAgent(cmd.Context(), args[0], args[1], args[2], args[3])
		},
	}

	cmd.Flags().BoolVar(&showVersion, "version", false, "Print version and exit")
	cmd.Flags().BoolVar(&showInput, "show-input", false, "Diagnostic mode: show decoded key events instead of spawning a child")
	cmd.Flags().BoolVar(&withMouse, "with-mouse", false, "With --show-input, also request mouse reporting from the terminal")
	cmd.Flags().BoolVar(&createDesktop, "create-desktop", false, "No-op (§1 Non-goal: window-station/desktop isolation is Windows-specific)")

	return cmd
}

// runAgent wires the Agent's two listening pipes to a State and drives it
// until the data pipe closes or the process receives a termination signal.
func runAgent(ctx context.Context, controlName, dataName, colsArg, rowsArg string) error {
	cols, err := strconv.Atoi(colsArg)
	if err != nil {
		return clierrors.New(clierrors.ExitUsage, fmt.Sprintf("invalid cols %q: %v", colsArg, err))
	}
	rows, err := strconv.Atoi(rowsArg)
	if err != nil {
		return clierrors.New(clierrors.ExitUsage, fmt.Sprintf("invalid rows %q: %v", rowsArg, err))
	}

	logFile, _ := paths.DefaultLogFile()
	logger, cleanup, err := observability.NewLogger(&observability.Config{
		Level:       "info",
		Format:      "json",
		LogFile:     logFile,
		StderrMode:  "off",
		SessionID:   fmt.Sprintf("%s-%s", controlName, dataName),
		CommandPath: "conbridge-agent",
		Version:     buildinfo.Version,
		Commit:      buildinfo.Commit,
	})
	if err != nil {
		return clierrors.InvalidLoggingConfig(err)
	}
	defer func() { _ = cleanup() }()
	ctx = observability.WithLogger(ctx, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	dataSrv, err := transport.ListenData(dataName)
	if err != nil {
		return clierrors.Wrap(clierrors.ExitSetup, "listen data pipe", err)
	}
	defer dataSrv.Close()

	holder := newStateHolder()
	controlSrv, err := transport.ListenControl(controlName, holder.handle)
	if err != nil {
		return clierrors.Wrap(clierrors.ExitSetup, "listen control pipe", err)
	}
	defer controlSrv.Close()

	controlErrCh := make(chan error, 1)
	go func() { controlErrCh <- controlSrv.Serve(ctx) }()

	dataConn, err := dataSrv.Accept()
	if err != nil {
		return clierrors.Wrap(clierrors.ExitSetup, "accept data pipe", err)
	}
	defer dataConn.Close()

	cfg := config.Load()
	state := agent.NewState(cols, rows, cfg.BufferLineCount(), dataConn)
	holder.set(state)

	logger.Info("agent running", "control", controlName, "data", dataName, "cols", cols, "rows", rows)

	pollInterval := time.Duration(cfg.ScrapeIntervalMs()) * time.Millisecond
	runErr := state.Run(ctx, pollInterval)

	code, exited := state.Process.ExitCode()
	logger.Info("agent shutting down", "exit_code", code, "exited", exited, "run_error", runErr)

	return nil
}

// stateHolder lets the control pipe answer Ping before the Agent's State
// exists (the Library dials the control pipe, handshakes, and only then
// dials the data pipe that NewState needs) and blocks any other request
// until State is ready.
type stateHolder struct {
	mu    sync.Mutex
	ready chan struct{}
	state *agent.State
}

func newStateHolder() *stateHolder {
	return &stateHolder{ready: make(chan struct{})}
}

func (h *stateHolder) set(s *agent.State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
	close(h.ready)
}

func (h *stateHolder) handle(kind wire.MessageKind, msg any) ([]byte, error) {
	if kind == wire.Ping {
		return wire.EncodeStatusReply(wire.StatusOK), nil
	}
	<-h.ready
	return h.state.HandleControl(kind, msg)
}
