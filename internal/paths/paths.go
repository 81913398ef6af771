package paths

import (
	"os"
	"path/filepath"
	"time"
)

// Fixed names inside a project root.
const (
	DescriptorFile = "ccp4m.yaml"
	ObjectsDir     = "buildfiles"
	LibDir         = "lib"
	BinDir         = "bin"
)

// HomeDir is the tool's own directory, ~/.ccp4m unless CCP4M_HOME is set.
func HomeDir() string {
	if x := os.Getenv("CCP4M_HOME"); x != "" {
		return x
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ccp4m")
}

func ConfigFile() string  { return filepath.Join(HomeDir(), "config.yaml") }
func LogDir() string      { return filepath.Join(HomeDir(), "logs") }
func HistoryFile() string { return filepath.Join(HomeDir(), "history.db") }

// LogFile returns the audit log for the given day.
func LogFile(day time.Time) string {
	return filepath.Join(LogDir(), "ccp4m-"+day.Format("2006-01-02")+".log")
}
