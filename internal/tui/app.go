// Package tui provides a small interactive view over the task registry.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harunari/todoro/internal/domain"
	"github.com/harunari/todoro/internal/registry"
)

// mode is the interaction mode of the model.
type mode int

const (
	modeList  mode = iota // Navigating the task list
	modeInput             // Typing a new task
)

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Model is the bubbletea model for the interactive task list.
// Fields are ordered to minimize memory padding.
type Model struct {
	registry *registry.Registry
	input    textinput.Model
	errMsg   string
	cursor   int
	mode     mode
	degraded bool
}

// New creates a Model over an initialized registry. degraded marks a
// registry that came up from a degraded load so the view can say so.
func New(reg *registry.Registry, degraded bool) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = domain.MaxTextLength

	return Model{
		registry: reg,
		input:    ti,
		degraded: degraded,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.mode == modeInput {
		return m.updateInput(keyMsg)
	}
	return m.updateList(keyMsg)
}

// updateList handles keys in list mode.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.registry.TotalCount()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		m.mode = modeInput
		m.errMsg = ""
		m.input.Reset()
		return m, m.input.Focus()
	case " ", "enter":
		if task, ok := m.taskAtCursor(); ok {
			if _, err := m.registry.Toggle(context.Background(), task.ID); err != nil {
				m.errMsg = err.Error()
			} else {
				m.errMsg = ""
			}
		}
	case "d":
		if task, ok := m.taskAtCursor(); ok {
			if _, err := m.registry.Delete(context.Background(), task.ID); err != nil {
				m.errMsg = err.Error()
			} else {
				m.errMsg = ""
				if m.cursor > 0 && m.cursor >= m.registry.TotalCount() {
					m.cursor--
				}
			}
		}
	}
	return m, nil
}

// updateInput handles keys in input mode.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		_, err := m.registry.Add(context.Background(), m.input.Value())
		if err != nil {
			if verr := domain.AsValidationError(err); verr != nil {
				m.errMsg = verr.Message
			} else {
				m.errMsg = err.Error()
			}
			return m, nil
		}
		m.errMsg = ""
		m.mode = modeList
		m.input.Blur()
		m.cursor = m.registry.TotalCount() - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// taskAtCursor returns the task under the cursor.
func (m Model) taskAtCursor() (domain.Task, bool) {
	tasks := m.registry.All()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.cursor], true
}

// View implements tea.Model.
func (m Model) View() string {
	s := titleStyle.Render("todoro") + "\n\n"

	if m.degraded {
		s += degradedStyle.Render("! storage degraded, running on recovered data") + "\n\n"
	}

	tasks := m.registry.All()
	if len(tasks) == 0 {
		s += helpStyle.Render("  no tasks") + "\n"
	}
	for i, t := range tasks {
		cursor := "  "
		if i == m.cursor && m.mode == modeList {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		text := t.Text
		if t.Completed {
			check = checkStyle.Render("[x]")
			text = doneStyle.Render(text)
		}
		s += fmt.Sprintf("%s%s %s\n", cursor, check, text)
	}

	s += fmt.Sprintf("\n%d task(s), %d done\n", m.registry.TotalCount(), m.registry.CompletedCount())

	if m.mode == modeInput {
		s += "\n" + m.input.View() + "\n"
		s += helpStyle.Render("enter: add  esc: cancel") + "\n"
	} else {
		s += helpStyle.Render("a: add  space: toggle  d: delete  j/k: move  q: quit") + "\n"
	}

	if m.errMsg != "" {
		s += errStyle.Render("error: "+m.errMsg) + "\n"
	}

	return s
}
