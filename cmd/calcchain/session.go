package main

import (
	"errors"
	"fmt"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage local sessions",
	Long:  `List, inspect, and remove sessions stored in .calcchain/sessions.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List sessions with a chain in progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openLocal(cmd)
		if err != nil {
			return err
		}
		sessions, err := svc.Sessions().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No active sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Active Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the raw chain record of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openLocal(cmd)
		if err != nil {
			return err
		}
		data, err := svc.Sessions().Record(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrKeyNotFound) {
			return fmt.Errorf("session %q has no chain in progress", args[0])
		}
		if err != nil {
			return fmt.Errorf("error loading session %q: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(data))
		if _, err := domain.DecodeState(data); err != nil {
			fmt.Fprintf(out, "warning: %v (treated as no chain in progress)\n", err)
		}
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openLocal(cmd)
		if err != nil {
			return err
		}

		var errs []error
		for _, sessionID := range args {
			if err := svc.Sessions().Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing %q: %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
