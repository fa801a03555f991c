package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title, text, muted, key lipgloss.Style
	ok, fail, sel           lipgloss.Style
	panel                   lipgloss.Style
	pens                    map[Pen]lipgloss.Style
}

func newStyles(t Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title: fg(t.Primary).Bold(true),
		text:  fg(t.Text),
		muted: fg(t.Muted),
		key:   fg(t.Primary).Bold(true),
		ok:    fg(t.Success).Bold(true),
		fail:  fg(t.Error).Bold(true),
		sel:   fg(t.Select).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		pens: map[Pen]lipgloss.Style{
			PenZero:        fg(t.Zero),
			PenTension:     fg(t.Tension),
			PenCompression: fg(t.Compression),
			PenLoad:        fg(t.Load),
			PenJoint:       fg(t.Text),
			PenAnchor:      fg(t.Primary),
			PenFlag:        fg(t.Flag).Bold(true),
			PenSelect:      fg(t.Select).Bold(true),
		},
	}
}

// hints renders "key action" pairs separated by two spaces.
func (s styles) hints(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.key.Render(pairs[i])+s.muted.Render(" "+pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

func separator(s styles, width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return s.muted.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
