package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/build"
	"github.com/Electrux/CCP4M-Final/internal/platform"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, build and test the project in the current directory",
}

func init() {
	rootCmd.AddCommand(projectCmd)
}

// newSession builds a session rooted at the working directory.
func newSession(cmd *cobra.Command, dryRun bool, jobs int) (*build.Session, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	if jobs <= 0 {
		jobs = state.cfg.Build.Jobs
	}
	return &build.Session{
		Root:      root,
		Toolchain: state.cfg.Toolchain,
		Platform:  platform.Current,
		Runner:    &build.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
		Display:   newDisplay(cmd, dryRun),
		Logger:    state.logger,
		Jobs:      jobs,
		DryRun:    dryRun,
	}, nil
}

// newOrchestrator attaches the run history when it can be opened.
func newOrchestrator(s *build.Session) *build.Orchestrator {
	if store := openHistory(); store != nil {
		return build.NewOrchestrator(s, store)
	}
	return build.NewOrchestrator(s, nil)
}
