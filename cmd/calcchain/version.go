package main

import (
	"github.com/healthcalc/calcchain"
	"github.com/healthcalc/calcchain/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of calcchain",
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), calcchain.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
