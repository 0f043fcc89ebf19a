package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/healthcalc/calcchain/internal/presentation/tui"
	"github.com/healthcalc/calcchain/pkg/domain"
)

// PrintChains writes a one-line summary per chain.
func PrintChains(w io.Writer, chains []domain.Chain) {
	if len(chains) == 0 {
		fmt.Fprintln(w, "No chains configured.")
		return
	}
	for _, c := range chains {
		fmt.Fprintf(w, "%-20s %-30s %d steps\n", c.ID, c.Name, len(c.Steps))
	}
}

// PrintProgress writes the chain in progress with its shared data.
func PrintProgress(w io.Writer, p domain.Progress, render func(string) (string, error)) error {
	fmt.Fprintf(w, "%s  %s\n", p.Chain.ID, tui.ProgressBar(p, 20))

	out, err := render(tui.ChainMarkdown(&p.Chain, p.State))
	if err != nil {
		return fmt.Errorf("error rendering chain: %w", err)
	}
	fmt.Fprint(w, out)
	PrintSharedData(w, p.State.SharedData)
	return nil
}

// PrintSharedData writes accumulated answers sorted by key.
func PrintSharedData(w io.Writer, data domain.SharedData) {
	if len(data) == 0 {
		return
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(w, "\nShared data:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %v\n", k, data[k])
	}
}
