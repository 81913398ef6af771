package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/build"
	"github.com/Electrux/CCP4M-Final/internal/display"
	"github.com/Electrux/CCP4M-Final/internal/watch"
)

var (
	buildDryRun bool
	buildJobs   int
	buildWatch  bool
)

var projectBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every target of the project",
	Long: `Build every target declared in ccp4m.yaml, in declaration order.

Only sources newer than their objects are recompiled, and a target is
relinked only when one of its objects changed or its artifact is missing.

Examples:
  ccp4m project build                # Build out-of-date targets
  ccp4m project build --dry-run      # Print the toolchain commands instead
  ccp4m project build --jobs 8       # Compile up to 8 sources at once
  ccp4m project build --watch        # Rebuild whenever a source changes`,
	Args: cobra.NoArgs,
	RunE: runProjectBuild,
}

func init() {
	projectCmd.AddCommand(projectBuildCmd)
	projectBuildCmd.Flags().BoolVarP(&buildDryRun, "dry-run", "n", false, "print commands without running them")
	projectBuildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "parallel compiles per target (default from config)")
	projectBuildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild on source changes until interrupted")
}

func runProjectBuild(cmd *cobra.Command, args []string) error {
	if buildWatch && buildDryRun {
		return errors.New("--watch cannot be combined with --dry-run")
	}
	s, err := newSession(cmd, buildDryRun, buildJobs)
	if err != nil {
		return err
	}
	o := newOrchestrator(s)

	err = buildOnce(cmd.Context(), o, s.Display)
	if !buildWatch {
		return err
	}
	if err != nil {
		s.Display.Failure("%v", err)
	}

	w, err := watch.New(s.Root, watch.DefaultDebounce, state.logger)
	if err != nil {
		return err
	}
	defer w.Close()
	s.Display.Step("Watching %s for changes (Ctrl+C to stop)", s.Root)
	return w.Run(cmd.Context(), func(ctx context.Context) error {
		err := buildOnce(ctx, o, s.Display)
		if err != nil {
			s.Display.Failure("%v", err)
		}
		return err
	})
}

func buildOnce(ctx context.Context, o *build.Orchestrator, d *display.Display) error {
	rep, err := o.Build(ctx)
	if err != nil {
		return err
	}
	if !rep.DryRun {
		d.Success("Built %s in %s", rep.Project, rep.Duration.Round(time.Millisecond))
	}
	return nil
}
