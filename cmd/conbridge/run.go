package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conbridge/conbridge/internal/adapter"
	clierrors "github.com/conbridge/conbridge/internal/errors"
	"github.com/conbridge/conbridge/internal/library"
	"github.com/conbridge/conbridge/internal/output"
	"github.com/conbridge/conbridge/internal/terminal"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "run -- <command> [args...]",
		Short:                 "Run a command under the bridged console",
		Args:                  cobra.MinimumNArgs(1),
		DisableFlagParsing:    true,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			args = stripSeparator(args)
			if len(args) == 0 {
				return &clierrors.CLIError{
					Message: "'conbridge run' requires a command to run",
					Hint:    "Run 'conbridge run -- <command> [args...]'",
					Code:    clierrors.ExitUsage,
				}
			}
			return runBridged(cmd, args)
		},
	}

	return cmd
}

// stripSeparator drops a leading "--" Cobra leaves in args when
// DisableFlagParsing is set, so "run -- ls -l" and "run ls -l" both reach
// runBridged as ["ls", "-l"].
func stripSeparator(args []string) []string {
	if len(args) > 0 && args[0] == "--" {
		return args[1:]
	}
	return args
}

func runBridged(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := output.FromContext(ctx)

	info := terminal.Detect()
	cols, rows := info.Width, info.Height

	lib := &library.Library{}

	spinner := out.Spinner("starting conbridge-agent")
	spinner.Start()

	sess, err := lib.Open(ctx, cols, rows)
	if err != nil {
		spinner.StopWithFailure("")
		return clierrors.AgentSpawnFailed(err)
	}
	defer sess.Close()

	cwd, err := os.Getwd()
	if err != nil {
		spinner.StopWithFailure("")
		return clierrors.Wrap(clierrors.ExitSetup, "resolve working directory", err)
	}

	if err := sess.StartProcess(args[0], strings.Join(args, " "), cwd, nil); err != nil {
		spinner.StopWithFailure("")
		return clierrors.Wrap(clierrors.ExitSetup, "start process", err)
	}

	spinner.StopWithSuccess("")

	code, err := adapter.Run(ctx, sess)
	if err != nil {
		return clierrors.Wrap(clierrors.ExitGeneral, "bridge session", err)
	}

	childExitCode = code
	return nil
}
