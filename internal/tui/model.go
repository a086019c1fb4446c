// Package tui is the interactive task list screen.
//
// The Model renders store state and turns key presses into store intents.
// Backend calls returned by the store run as tea.Cmds and come back as
// opDoneMsg, so every store mutation happens inside Update.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/store"
)

// opDoneMsg carries the result of a store op back to the update loop.
type opDoneMsg struct {
	op  *store.Op
	err error
}

// Model is the bubbletea model for the task list.
type Model struct {
	ctx     context.Context
	store   *store.Store
	baseURL string

	cursor      int
	formFocused bool
	form        textinput.Model // new-task buffer
	edit        textinput.Model // buffer of the row being edited

	width    int
	quitting bool
}

// New creates the model. The initial load starts in Init.
func New(ctx context.Context, s *store.Store, baseURL string) Model {
	form := textinput.New()
	form.Placeholder = "New task..."
	form.Prompt = "+ "
	form.CharLimit = 256
	form.Width = 50

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 256
	edit.Width = 50

	return Model{
		ctx:     ctx,
		store:   s,
		baseURL: baseURL,
		form:    form,
		edit:    edit,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, s *store.Store, baseURL string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(New(ctx, s, baseURL), opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run(m.store.Load())
}

// run wraps op as a command. A nil op (rejected intent) yields no command.
func (m Model) run(op *store.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: op.Run(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		m.store.Settle(msg.op, msg.err)
		m.clampCursor()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.form.Width = max(msg.Width-10, 10)
		m.edit.Width = max(msg.Width-12, 10)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if _, editing := m.store.Editing().ID(); editing {
			return m.updateEdit(msg)
		}
		if m.formFocused {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.store.Tasks()

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "a", "tab":
		m.formFocused = true
		cmd := m.form.Focus()
		return m, cmd
	case "r":
		// A reload during a load joins the request already in flight.
		return m, m.run(m.store.Load())
	case "esc":
		m.store.ClearError()
	case " ":
		if len(tasks) > 0 {
			return m, m.run(m.store.Toggle(tasks[m.cursor].ID))
		}
	case "d", "x":
		if len(tasks) > 0 {
			cmd := m.run(m.store.Remove(tasks[m.cursor].ID))
			m.clampCursor()
			return m, cmd
		}
	case "e", "enter":
		if len(tasks) > 0 {
			cmd := m.startEdit(tasks[m.cursor])
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.formFocused = false
		m.form.Blur()
		return m, nil
	case "enter":
		op := m.store.Add(m.form.Value())
		if op != nil {
			// Blank input stays in the box, like a disabled submit button.
			m.form.Reset()
		}
		return m, m.run(op)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.store.EditCancel()
		m.discardEdit()
		return m, nil
	case "enter":
		return m.saveEdit()
	case "up", "down", "tab", "shift+tab":
		// Leaving the row is a focus loss, which saves like enter does.
		next, cmd := m.saveEdit()
		nm := next.(Model)
		if _, still := nm.store.Editing().ID(); still {
			return nm, cmd
		}
		switch msg.String() {
		case "up":
			if nm.cursor > 0 {
				nm.cursor--
			}
		case "down":
			if nm.cursor < len(nm.store.Tasks())-1 {
				nm.cursor++
			}
		}
		return nm, cmd
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

// startEdit puts task in edit mode with its title in the buffer. It is only
// reached from list focus, so no other edit is in progress.
func (m *Model) startEdit(task service.Task) tea.Cmd {
	m.store.EditStart(task.ID)
	m.edit.SetValue(task.Title)
	m.edit.CursorEnd()
	m.formFocused = false
	m.form.Blur()
	return m.edit.Focus()
}

func (m Model) saveEdit() (tea.Model, tea.Cmd) {
	id, ok := m.store.Editing().ID()
	if !ok {
		return m, nil
	}
	op := m.store.EditSave(id, m.edit.Value())
	if _, still := m.store.Editing().ID(); !still {
		m.discardEdit()
	}
	return m, m.run(op)
}

func (m *Model) discardEdit() {
	m.edit.Blur()
	m.edit.SetValue("")
}

func (m *Model) clampCursor() {
	n := len(m.store.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
