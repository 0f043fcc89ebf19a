package main

import (
	"fmt"

	"github.com/healthcalc/calcchain/internal/cli"
	"github.com/healthcalc/calcchain/internal/presentation/graph"
	"github.com/healthcalc/calcchain/internal/presentation/tui"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Inspect configured chains",
}

var chainsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("chains")
		c, err := cli.LoadCatalog(path)
		if err != nil {
			return err
		}
		cli.PrintChains(cmd.OutOrStdout(), c.Chains())
		return nil
	},
}

var chainsShowCmd = &cobra.Command{
	Use:   "show <chain-id>",
	Short: "Describe a chain and its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, state, err := chainWithLocalState(cmd, args[0])
		if err != nil {
			return err
		}
		out, err := tui.NewRenderer()(tui.ChainMarkdown(ch, state))
		if err != nil {
			return fmt.Errorf("error rendering chain: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var chainsGraphCmd = &cobra.Command{
	Use:   "graph <chain-id>",
	Short: "Export a chain as a Mermaid diagram",
	Long:  `Outputs a Mermaid flowchart (graph LR) of the chain, highlighting local progress.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, state, err := chainWithLocalState(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(ch, graph.OverlayFor(ch, state)))
		return nil
	},
}

// chainWithLocalState resolves id and the local session's state when it is on that chain.
func chainWithLocalState(cmd *cobra.Command, id string) (*domain.Chain, *domain.ChainState, error) {
	svc, sessionID, err := openLocal(cmd)
	if err != nil {
		return nil, nil, err
	}
	ch, err := svc.Catalog().Chain(id)
	if err != nil {
		return nil, nil, err
	}
	state, ok := svc.Session(sessionID).Active(cmd.Context())
	if !ok || state.ChainID != ch.ID {
		state = nil
	}
	return ch, state, nil
}

func init() {
	rootCmd.AddCommand(chainsCmd)
	chainsCmd.AddCommand(chainsLsCmd)
	chainsCmd.AddCommand(chainsShowCmd)
	chainsCmd.AddCommand(chainsGraphCmd)
}
