package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/config"
	"github.com/Electrux/CCP4M-Final/internal/display"
	"github.com/Electrux/CCP4M-Final/internal/fsutil"
	"github.com/Electrux/CCP4M-Final/internal/history"
	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

// app is what the persistent pre-run prepares for every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []io.Closer
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

var (
	state   app
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "ccp4m",
	Short: "CCP4M - C/C++ project manager",
	Long: `CCP4M builds C and C++ projects described by a ccp4m.yaml file in the
project root. Objects are written to buildfiles/, libraries to lib/ and
binaries to bin/.`,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func prepare(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	if err := config.LoadDotEnv(wd); err != nil {
		return err
	}
	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		return err
	}
	if noColor {
		cfg.Color = false
	}
	state.cfg = cfg

	logger, closer, err := logging.Open(paths.LogFile(time.Now()), logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: audit log disabled: %v\n", err)
		state.logger = logging.Discard()
		return nil
	}
	state.closers = append(state.closers, closer)
	state.logger = logger
	return nil
}

// newDisplay writes status to the command's stdout. With commandsOnly set,
// stdout carries only toolchain command lines and status moves to stderr.
func newDisplay(cmd *cobra.Command, commandsOnly bool) *display.Display {
	d := display.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), state.cfg.Color)
	if commandsOnly {
		d.Commands = cmd.OutOrStdout()
		d.Out = cmd.ErrOrStderr()
		d.Interactive = false
	}
	return d
}

// openHistory opens the run history. Failures are logged and yield nil.
func openHistory() *history.Store {
	if err := fsutil.CreateDir(paths.HomeDir()); err != nil {
		state.logger.Warn("history unavailable", logging.Error(err))
		return nil
	}
	store, err := history.Open(paths.HistoryFile())
	if err != nil {
		state.logger.Warn("history unavailable", logging.Error(err))
		return nil
	}
	state.closers = append(state.closers, store)
	return store
}

func Execute() error {
	// Silence usage and errors to avoid cluttering output with Cobra defaults
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer state.close()
	return rootCmd.ExecuteContext(ctx)
}
