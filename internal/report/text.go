package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
)

const rule = "───────────────────────────────────────────────────────────────"

// WriteText writes the plain-text report. With styled set, headings and the
// status line are colored for a terminal.
func WriteText(w io.Writer, r *Report, styled bool) error {
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", render(titleStyle, "TRUSS ANALYSIS: "+r.Name))
	fmt.Fprintln(&b, rule)

	status := render(okStyle, "✓ "+r.Result.Reason)
	if !r.Result.Success {
		status = render(failStyle, "✗ "+r.Result.Reason)
	}
	fmt.Fprintf(&b, "  %s\n", status)
	if len(r.Result.Flagged) > 0 {
		fmt.Fprintf(&b, "  %s %v\n", render(mutedStyle, "flagged joints:"), r.Result.Flagged)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, render(titleStyle, "JOINTS:"))
	fmt.Fprintln(&b, rule)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tx\ty\tsupport\tload\treaction\t")
	for _, j := range r.Joints() {
		support := "-"
		switch j.Index {
		case r.Result.Pin:
			support = "pin"
		case r.Result.Roller:
			support = "roller"
		default:
			if j.Anchor {
				support = "anchor"
			}
		}
		reaction := "-"
		if j.Reaction != nil {
			reaction = fmt.Sprintf("(%.3f, %.3f)", j.Reaction.X, j.Reaction.Y)
		}
		mark := ""
		if j.Problematic {
			mark = " ⚠"
		}
		fmt.Fprintf(tw, "  %d%s\t%.3f\t%.3f\t%s\t(%.1f, %.1f)\t%s\t\n",
			j.Index, mark, j.X, j.Y, support, j.Load.X, j.Load.Y, reaction)
	}
	tw.Flush()
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, render(titleStyle, "BEAMS:"))
	fmt.Fprintln(&b, rule)
	tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tjoints\tlength\tarea\tforce\tstress\tkind\t")
	for _, bm := range r.Beams() {
		fmt.Fprintf(tw, "  %d\t%d-%d\t%.3f\t%.4f\t%.3f\t%.3f\t%s\t\n",
			bm.Index, bm.J1, bm.J2, bm.Length, bm.Area, bm.Force, bm.Stress, bm.Kind)
	}
	tw.Flush()

	if r.Result.Success {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, render(titleStyle, "SUMMARY:"))
		fmt.Fprintln(&b, rule)
		sum := r.Summary
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		if sum.MaxTension.Beam >= 0 {
			fmt.Fprintf(tw, "  Max tension:\t%.3f\t(beam %d)\n", sum.MaxTension.Value, sum.MaxTension.Beam)
		}
		if sum.MaxCompression.Beam >= 0 {
			fmt.Fprintf(tw, "  Max compression:\t%.3f\t(beam %d)\n", sum.MaxCompression.Value, sum.MaxCompression.Beam)
		}
		if sum.MaxStress.Beam >= 0 {
			fmt.Fprintf(tw, "  Max |stress|:\t%.3f\t(beam %d)\n", sum.MaxStress.Value, sum.MaxStress.Beam)
		}
		fmt.Fprintf(tw, "  Zero-force members:\t%d\t\n", sum.ZeroForce)
		fmt.Fprintf(tw, "  Residual:\t(%.2e, %.2e)\t\n", sum.Residual.X, sum.Residual.Y)
		tw.Flush()
	}

	_, err := io.WriteString(w, b.String())
	return err
}
