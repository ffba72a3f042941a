package tui

import (
	"context"

	"gardenmap/internal/garden"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal front end over a started session and blocks until the user quits.
func Run(ctx context.Context, sess *garden.Session) error {
	applyThemePreference()
	applyColorProfilePreference()

	changes, unsubscribe := sess.Catalog.Subscribe()
	defer unsubscribe()

	m := newAppModel(ctx, sess, changes)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
