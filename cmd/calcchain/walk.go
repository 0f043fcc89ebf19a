package main

import (
	"fmt"

	"github.com/healthcalc/calcchain/internal/cli"
	"github.com/healthcalc/calcchain/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <chain-id>",
	Short: "Start a chain, abandoning the one in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, sessionID, err := openLocal(cmd)
		if err != nil {
			return err
		}
		next, ok := svc.Session(sessionID).Start(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("chain %q not found (see 'calcchain chains ls')", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started %s. Next calculator: %s\n", args[0], next)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the chain in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, sessionID, err := openLocal(cmd)
		if err != nil {
			return err
		}
		p, ok := svc.Session(sessionID).Progress(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No chain in progress.")
			return nil
		}
		return cli.PrintProgress(cmd.OutOrStdout(), p, tui.NewRenderer())
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance <slug> [key=value...]",
	Short: "Complete the current calculator and move on",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cli.ParseAssignments(args[1:])
		if err != nil {
			return err
		}
		svc, sessionID, err := openLocal(cmd)
		if err != nil {
			return err
		}
		store := svc.Session(sessionID)

		p, active := store.Progress(cmd.Context())
		isCurrent := active && p.CurrentStep.Slug == args[0]

		next, ok := store.Advance(cmd.Context(), args[0], data)
		out := cmd.OutOrStdout()
		switch {
		case ok:
			fmt.Fprintf(out, "Next calculator: %s\n", next)
		case isCurrent && p.IsLastStep():
			if _, still := store.Active(cmd.Context()); still {
				return fmt.Errorf("chain %s: final step was not cleared", p.Chain.ID)
			}
			fmt.Fprintf(out, "Chain %s complete. See your results.\n", p.Chain.ID)
		case !active:
			fmt.Fprintln(out, "No chain in progress.")
		default:
			fmt.Fprintf(out, "Ignored: current calculator is %s, not %s.\n", p.CurrentStep.Slug, args[0])
		}
		return nil
	},
}

var exitCmd = &cobra.Command{
	Use:   "exit",
	Short: "Abandon the chain in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, sessionID, err := openLocal(cmd)
		if err != nil {
			return err
		}
		svc.Session(sessionID).Exit(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Left the chain.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(exitCmd)
}
