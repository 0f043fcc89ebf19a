package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintBanner writes a colored product line.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	title := termenv.String("calcchain").Bold().Foreground(p.Color("#34d399"))
	sub := termenv.String(" guided calculator chains " + strings.TrimSpace(version)).Foreground(p.Color("#6b7280"))
	fmt.Fprintf(w, "%s%s\n\n", title, sub)
}

// ProgressBar renders progress as a colored bar, e.g. "[###-------] 1/3".
func ProgressBar(p domain.Progress, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := 0
	if p.Total > 0 {
		filled = p.Completed * width / p.Total
	}

	profile := termenv.EnvColorProfile()
	done := termenv.String(strings.Repeat("#", filled)).Foreground(profile.Color("#34d399"))
	rest := strings.Repeat("-", width-filled)
	return fmt.Sprintf("[%s%s] %d/%d", done, rest, p.Completed, p.Total)
}
