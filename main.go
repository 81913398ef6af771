package main

import (
	"os"

	"github.com/Electrux/CCP4M-Final/cmd"
	"github.com/Electrux/CCP4M-Final/internal/display"
)

func main() {
	if err := cmd.Execute(); err != nil {
		display.New(os.Stderr, os.Stderr, true).Failure("%v", err)
		os.Exit(1)
	}
}
