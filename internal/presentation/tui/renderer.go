package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/healthcalc/calcchain/pkg/domain"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// When stdout is not a terminal the markdown is returned untouched.
func NewRenderer() func(string) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// ChainMarkdown describes a chain as markdown. When state is non-nil the
// step list is annotated with progress.
func ChainMarkdown(c *domain.Chain, state *domain.ChainState) string {
	var sb strings.Builder
	name := c.Name
	if name == "" {
		name = c.ID
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if c.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", c.Description)
	}
	fmt.Fprintf(&sb, "Start link: `?chain=%s`\n\n", c.ID)

	for i, step := range c.Steps {
		marker := "[ ]"
		if state != nil {
			switch {
			case state.IsCompleted(step.Slug):
				marker = "[x]"
			case state.CurrentStepIndex == i:
				marker = "[>]"
			}
		}
		label := step.Label
		if label == "" {
			label = step.Slug
		}
		fmt.Fprintf(&sb, "%d. %s **%s** (`%s`)", i+1, marker, label, step.Slug)
		if step.Description != "" {
			fmt.Fprintf(&sb, " - %s", step.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
