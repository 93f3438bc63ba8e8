package main

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/conbridge/conbridge/internal/library"
	"github.com/conbridge/conbridge/internal/output"
	"github.com/conbridge/conbridge/internal/paths"
)

type doctorCheck struct {
	name   string
	pass   bool
	detail string
}

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify environment issues that would
prevent conbridge from bridging a session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			out.Println("conbridge doctor")
			out.Println("================")
			out.Println()

			checks := runDoctorChecks()

			passed := 0
			for _, c := range checks {
				if c.pass {
					passed++
					out.Success("%s", c.name)
				} else {
					out.Failure("%s", c.name)
				}
				if c.detail != "" {
					out.Muted("    %s", c.detail)
				}
			}

			out.Println()
			out.Print("%d/%d checks passed\n", passed, len(checks))

			return nil
		},
	}
}

func runDoctorChecks() []doctorCheck {
	var checks []doctorCheck

	agentPath, err := exec.LookPath(library.AgentPath)
	if err != nil {
		checks = append(checks, doctorCheck{
			name:   "conbridge-agent on PATH",
			pass:   false,
			detail: "install conbridge-agent alongside conbridge, or set PATH",
		})
	} else {
		checks = append(checks, doctorCheck{name: "conbridge-agent on PATH", pass: true, detail: agentPath})
	}

	sockRoot, err := paths.SocketRoot()
	if err != nil {
		checks = append(checks, doctorCheck{name: "named-pipe socket directory", pass: false, detail: err.Error()})
	} else if mkErr := os.MkdirAll(sockRoot, 0o700); mkErr != nil {
		checks = append(checks, doctorCheck{name: "named-pipe socket directory", pass: false, detail: mkErr.Error()})
	} else {
		checks = append(checks, doctorCheck{name: "named-pipe socket directory", pass: true, detail: sockRoot})
	}

	logFile, err := paths.DefaultLogFile()
	if err != nil {
		checks = append(checks, doctorCheck{name: "log file path", pass: false, detail: err.Error()})
	} else {
		checks = append(checks, doctorCheck{name: "log file path", pass: true, detail: logFile})
	}

	return checks
}
