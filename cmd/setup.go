package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/config"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

var (
	setupName  string
	setupEmail string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the author recorded in new projects",
	Long: `Write the tool configuration to ~/.ccp4m/config.yaml (or $CCP4M_HOME).

Without --name and --email the values are prompted for, which requires an
interactive terminal. Building does not need any configuration.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&setupName, "name", "", "author name")
	setupCmd.Flags().StringVar(&setupEmail, "email", "", "author email")
}

func runSetup(cmd *cobra.Command, args []string) error {
	current := state.cfg.Author
	name, email := strings.TrimSpace(setupName), strings.TrimSpace(setupEmail)

	if name == "" || email == "" {
		// refuse to prompt on non-tty
		if fi, _ := os.Stdin.Stat(); fi == nil || (fi.Mode()&os.ModeCharDevice) == 0 {
			return errors.New("refusing to prompt on non-interactive stdin; use --name and --email")
		}
		reader := bufio.NewReader(os.Stdin)
		if name == "" {
			name = ask(cmd.OutOrStdout(), reader, "Author name", current.Name)
		}
		if email == "" {
			email = ask(cmd.OutOrStdout(), reader, "Author email", current.Email)
		}
	}
	if name == "" {
		return errors.New("author name is required")
	}

	path := paths.ConfigFile()
	if err := config.SaveAuthor(path, config.Author{Name: name, Email: email}); err != nil {
		return err
	}
	state.logger.Info("configuration saved", "path", path)
	newDisplay(cmd, false).Success("Saved %s", path)
	return nil
}

func ask(out io.Writer, r *bufio.Reader, label, current string) string {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	ans, _ := r.ReadString('\n')
	ans = strings.TrimSpace(ans)
	if ans == "" {
		return current
	}
	return ans
}
