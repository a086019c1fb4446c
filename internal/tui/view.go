package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/output"
	"todo/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true)
	editingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

const (
	loadingText = "Loading..."
	emptyText   = "No tasks yet."
	listHelp    = "space toggle • e edit • d delete • a add • r reload • q quit"
	formHelp    = "enter add • esc back"
	editHelp    = "enter save • esc cancel • ↑/↓ save and move"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString(" ")
	b.WriteString(mutedStyle.Render(m.baseURL))
	b.WriteString("\n\n")

	b.WriteString(m.form.View())
	b.WriteString("\n\n")

	if m.store.Loading() {
		b.WriteString(mutedStyle.Render(loadingText))
		b.WriteString("\n")
	}
	if msg := m.store.Message(); msg != "" {
		b.WriteString(errorStyle.Render("! " + msg))
		b.WriteString("\n")
	}

	tasks := m.store.Tasks()
	if len(tasks) == 0 && !m.store.Loading() {
		b.WriteString(mutedStyle.Render(emptyText))
		b.WriteString("\n")
	}
	for i, task := range tasks {
		b.WriteString(m.renderRow(i, task))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help()))
	return b.String()
}

// renderRow draws one task in view or edit mode.
func (m Model) renderRow(i int, task service.Task) string {
	marker := "  "
	if i == m.cursor && !m.formFocused {
		marker = cursorStyle.Render("> ")
	}

	if m.store.Editing().Is(task.ID) {
		return marker + editingStyle.Render("✎ ") + m.edit.View()
	}

	title := output.NormalizeTitle(task.Title)
	if task.Completed {
		title = doneStyle.Render(title)
	}
	return marker + output.Checkbox(task.Completed) + " " + title
}

func (m Model) help() string {
	if _, editing := m.store.Editing().ID(); editing {
		return editHelp
	}
	if m.formFocused {
		return formHelp
	}
	return listHelp
}
