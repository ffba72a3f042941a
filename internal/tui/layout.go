package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines so panes line up
// under lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitLine pads or truncates ln to width visible columns. Truncation ends in an ellipsis.
func fitLine(ln string, width int) string {
	w := xansi.StringWidth(ln)
	switch {
	case width <= 0:
		return ""
	case w > width && width == 1:
		return xansi.Cut(ln, 0, 1)
	case w > width:
		return xansi.Cut(ln, 0, width-1) + "…"
	case w < width:
		return ln + strings.Repeat(" ", width-w)
	}
	return ln
}

// renderModalBox draws a bordered box with a title, centered horizontally for width.
func renderModalBox(width int, title, body string) string {
	bodyW := modalBodyWidth(width)
	head := lipgloss.NewStyle().Bold(true).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorModalBg).
		Padding(0, 1).
		Width(bodyW + 2)
	return box.Render(head + "\n\n" + body)
}

func modalBodyWidth(width int) int {
	w := width - 10
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}
