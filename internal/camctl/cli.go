package camctl

import (
	"fmt"
	"os"
)

// MainWithArgs runs the CLI with explicit args and returns an exit code.
func MainWithArgs(args []string) int {
	cfg := defaultConfig()
	root := buildRootCmd(cfg)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/camctl.
func Main() int { return MainWithArgs(os.Args[1:]) }
