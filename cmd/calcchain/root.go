package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/healthcalc/calcchain"
	"github.com/healthcalc/calcchain/internal/cli"
	"github.com/healthcalc/calcchain/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calcchain",
	Short: "calcchain runs guided calculator chains",
	Long: `calcchain links single-purpose health calculators (BMI, body fat, TDEE, ...)
into guided chains and remembers each visitor's progress.

Use "serve" for the HTTP service, or the local commands (start, status,
advance, exit) to walk a chain from the terminal.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory holding local sessions (.calcchain/sessions)")
	rootCmd.PersistentFlags().String("chains", "", "YAML or JSON chains file (default: built-in chains)")
	rootCmd.PersistentFlags().String("session", "local", "Session used by local commands")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	s, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(s)
	if err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}

// openLocal opens the file-backed service of --dir.
func openLocal(cmd *cobra.Command) (*calcchain.Service, string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	chains, _ := cmd.Flags().GetString("chains")
	sessionID, _ := cmd.Flags().GetString("session")

	svc, err := cli.OpenLocal(dir, chains, newLogger(cmd))
	if err != nil {
		return nil, "", err
	}
	return svc, sessionID, nil
}
