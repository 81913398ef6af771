package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	testDryRun bool
	testNoRun  bool
	testJobs   int
)

var projectTestCmd = &cobra.Command{
	Use:   "test [target]",
	Short: "Build and run the test harness of a target",
	Long: `Build bin/test_<output> from the target's sources, minus its main source,
plus the test sources declared under tests:, then run it.

The target is chosen by name or index and defaults to the first one. The
release artifact and build_date are left untouched.

Examples:
  ccp4m project test                 # Test the first target
  ccp4m project test mylib           # Test the target named mylib
  ccp4m project test --no-run        # Only build the harness`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjectTest,
}

func init() {
	projectCmd.AddCommand(projectTestCmd)
	projectTestCmd.Flags().BoolVarP(&testDryRun, "dry-run", "n", false, "print commands without running them")
	projectTestCmd.Flags().BoolVar(&testNoRun, "no-run", false, "build the harness without running it")
	projectTestCmd.Flags().IntVarP(&testJobs, "jobs", "j", 0, "parallel compiles (default from config)")
}

func runProjectTest(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, testDryRun, testJobs)
	if err != nil {
		return err
	}
	s.NoRun = testNoRun

	selector := ""
	if len(args) == 1 {
		selector = args[0]
	}
	rep, err := newOrchestrator(s).Test(cmd.Context(), selector)
	if err != nil {
		return err
	}
	if rep.DryRun {
		return nil
	}
	res := rep.Targets[0]
	if res.Ran {
		s.Display.Success("Tests for %s passed in %s", res.Target, rep.Duration.Round(time.Millisecond))
	} else {
		s.Display.Success("Built %s", res.Artifact)
	}
	return nil
}
