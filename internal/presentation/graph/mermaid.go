package graph

import (
	"fmt"
	"strings"

	"github.com/healthcalc/calcchain/pkg/domain"
)

// resultsNode is the terminal destination drawn after the last step.
const resultsNode = "results"

// Overlay contains progress data to visualize on the chain.
type Overlay struct {
	CompletedSlugs []string
	CurrentSlug    string
}

// OverlayFor builds the overlay of an in-progress state.
func OverlayFor(c *domain.Chain, s *domain.ChainState) *Overlay {
	if s == nil {
		return nil
	}
	step, _ := s.CurrentStep(c)
	return &Overlay{CompletedSlugs: s.CompletedSlugs, CurrentSlug: step.Slug}
}

// GenerateMermaid produces a Mermaid flowchart of a chain's steps.
// The first step is drawn as a circle, the results destination as a stadium.
// Completed and current steps are highlighted when an overlay is given.
func GenerateMermaid(c *domain.Chain, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, step := range c.Steps {
		safeID := sanitizeMermaidID(step.Slug)
		label := step.Label
		if label == "" {
			label = step.Slug
		}
		label = strings.ReplaceAll(label, "\"", "'")

		opener, closer := "[", "]"
		if i == 0 {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}
	sb.WriteString(fmt.Sprintf("    %s([\"Results\"])\n", resultsNode))

	for i, step := range c.Steps {
		to := resultsNode
		if i+1 < len(c.Steps) {
			to = sanitizeMermaidID(c.Steps[i+1].Slug)
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(step.Slug), to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef completed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		done := make(map[string]bool)
		for _, slug := range overlay.CompletedSlugs {
			safeID := sanitizeMermaidID(slug)
			if !done[safeID] && safeID != "" && c.Contains(slug) {
				done[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s completed;\n", safeID))
			}
		}

		if overlay.CurrentSlug != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentSlug)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
