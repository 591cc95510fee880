package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/harunari/todoro/internal/domain"
)

// List output styles.
var (
	doneStateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	activeStateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	doneTextStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

// renderState renders the STATE column.
func renderState(completed bool) string {
	if completed {
		return doneStateStyle.Render("done")
	}
	return activeStateStyle.Render("open")
}

// renderText renders the TEXT column, dimming completed tasks.
func renderText(t domain.Task) string {
	if t.Completed {
		return doneTextStyle.Render(t.Text)
	}
	return t.Text
}
