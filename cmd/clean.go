package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

var cleanTargets = []string{"log", "config", "history"}

var logFilePattern = regexp.MustCompile(`.*\.log`)

var cleanCmd = &cobra.Command{
	Use:   "clean [log|config|history]",
	Short: "Remove the tool's own logs, configuration or build history",
	Long: `Remove files under ~/.ccp4m (or $CCP4M_HOME). Without an argument all
three are removed. Project build outputs are not touched.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: cleanTargets,
	RunE:      runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	what := cleanTargets
	if len(args) == 1 {
		arg := strings.ToLower(strings.TrimSpace(args[0]))
		found := false
		for _, t := range cleanTargets {
			if t == arg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown clean target %q (valid: %s)", args[0], strings.Join(cleanTargets, ", "))
		}
		what = []string{arg}
	}

	d := newDisplay(cmd, false)
	for _, t := range what {
		var files []string
		switch t {
		case "log":
			logs, err := fsutil.FilesMatching(paths.LogDir(), logFilePattern)
			if err != nil {
				return err
			}
			files = logs
		case "config":
			files = []string{paths.ConfigFile()}
		case "history":
			files = []string{paths.HistoryFile()}
		}

		removed := 0
		for _, f := range files {
			if !fsutil.Exists(f) {
				continue
			}
			if err := fsutil.Delete(f); err != nil {
				return err
			}
			removed++
		}
		state.logger.Info("cleaned", "what", t, "files", removed)
		d.Success("Cleaned %s (%d file(s))", t, removed)
	}
	return nil
}
