package atelierctl

import (
	"fmt"
	"os"
)

// Config carries the flag values shared by all subcommands.
type Config struct {
	ConfigPath string
	Root       string
	Addr       string
	LogLvl     string
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(args []string) int {
	cfg := &Config{
		Root:   envStr("ATELIER_ROOT", ""),
		Addr:   envStr("ATELIER_ADDR", ""),
		LogLvl: envStr("ATELIERCTL_LOG_LEVEL", "info"),
	}
	root := buildRootCmdWith(cfg)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/atelierctl.
func Main() int { return MainWithArgs(os.Args[1:]) }
