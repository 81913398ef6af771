package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Electrux/CCP4M-Final/internal/config"
	"github.com/Electrux/CCP4M-Final/internal/paths"
	"github.com/Electrux/CCP4M-Final/internal/project"
	"github.com/Electrux/CCP4M-Final/internal/scaffold"
)

var (
	newType  string
	newLang  string
	newStd   int
	newNoGit bool
)

var projectNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new project directory",
	Long: `Create <name>/ with a ccp4m.yaml, a starter source file, include/, a
sample test under tests/ and a .gitignore for the build outputs. C++ tests
use gtest; C tests bring their own main. A git repository
is initialized unless --no-git is given. The author comes from the tool
configuration (see ccp4m setup).`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectNew,
}

func init() {
	projectCmd.AddCommand(projectNewCmd)
	projectNewCmd.Flags().StringVarP(&newType, "type", "t", "bin", "target type (bin or lib)")
	projectNewCmd.Flags().StringVarP(&newLang, "lang", "l", "c++", "language (c or c++)")
	projectNewCmd.Flags().IntVar(&newStd, "std", 0, "language standard (default 11 for C, 17 for C++)")
	projectNewCmd.Flags().BoolVar(&newNoGit, "no-git", false, "skip git repository initialization")
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	d := newDisplay(cmd, false)

	var author *project.Author
	if a := state.cfg.Author; strings.TrimSpace(a.Name) != "" || strings.TrimSpace(a.Email) != "" {
		author = &project.Author{Name: a.Name, Email: a.Email}
	} else if !config.Exists(paths.ConfigFile()) {
		d.Warn("No author configured; run `ccp4m setup` to set one")
	}

	root, err := scaffold.Create(scaffold.Options{
		Name:   args[0],
		Dir:    wd,
		Type:   project.TargetType(newType),
		Lang:   newLang,
		Std:    newStd,
		Author: author,
		Git:    !newNoGit,
	})
	if err != nil {
		return err
	}
	state.logger.Info("project created", "root", root)
	d.Success("Created %s", root)
	d.Detail("cd %s && ccp4m project build", args[0])
	return nil
}
