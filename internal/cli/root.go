// Package cli wires configuration, storage and the screen behind the
// forget-me-not command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clive/forget-me-not/internal/exitcode"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	configPath string
	backend    string
	dataDir    string
	store      string
	debug      bool
}

// exitError carries the exit code for an error
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.UserError
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "forget-me-not",
		Short: "A tiny to-do list that remembers",
		Long: `Forget Me Not keeps a list of free-text tasks.

Run without a subcommand to open the list screen. Tasks are saved whenever
the screen loses focus, is suspended or quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreen(cmd, opts)
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file (default .forget-me-not/config.yaml, then ~/.forget-me-not/config.yaml)")
	pf.StringVar(&opts.backend, "backend", "", "Preference backend: file, sqlite or memory")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Directory holding preferences and the log")
	pf.StringVar(&opts.store, "store", "", "Name of the preference store")
	pf.BoolVar(&opts.debug, "debug", false, "Show the debug panel and log at debug level")

	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newRmCmd(opts))

	return rootCmd
}

// Execute runs the root command and returns the process exit code
func Execute(version string) int {
	err := NewRootCmd(version).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return ExitCode(err)
}
