package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusCancel confirmModalFocus = iota
	confirmFocusConfirm
)

// confirmModal asks before deleting a plant. Cancel has focus initially.
type confirmModal struct {
	plantID string
	name    string
	focus   confirmModalFocus
}

func (c *confirmModal) toggleFocus() {
	if c.focus == confirmFocusConfirm {
		c.focus = confirmFocusCancel
	} else {
		c.focus = confirmFocusConfirm
	}
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Width(modalBodyWidth(width)).Render("y: delete   n/esc: keep   tab: focus   enter: select")

	content := strings.Join([]string{body, "", controls, "", help}, "\n")
	return renderModalBox(width, title, content)
}
