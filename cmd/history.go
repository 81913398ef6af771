package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/history"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent builds and test runs",
	Long: `List recorded build and test runs, newest first.

Examples:
  ccp4m history                 # Last 20 runs
  ccp4m history --limit 0       # Every run
  ccp4m history --json          # Output JSON for piping`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var runs []history.Run
	if fsutil.Exists(paths.HistoryFile()) {
		store, err := history.Open(paths.HistoryFile())
		if err != nil {
			return err
		}
		defer store.Close()
		if runs, err = store.Recent(cmd.Context(), historyLimit); err != nil {
			return err
		}
	}

	if historyJSON {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPROJECT\tKIND\tRESULT\tCOMPILED\tLINKED\tDURATION")
	for _, r := range runs {
		result := "ok"
		if !r.Success {
			result = "failed"
		}
		if r.DryRun {
			result += " (dry run)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Project,
			r.Kind,
			result,
			r.Compiled,
			r.Linked,
			r.Duration.Round(time.Millisecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d run(s)\n", len(runs))
	return nil
}
