// Package tui renders the todo list in the terminal and dispatches user
// intents to the server. All list mutations go through the session cache,
// reconciled from confirmed server responses only.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dwhalen/todo-list/internal/client"
	"github.com/dwhalen/todo-list/internal/client/state"
	"github.com/dwhalen/todo-list/internal/models"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
)

type (
	todosLoadedMsg struct{ todos []models.Todo }
	todoCreatedMsg struct{ todo models.Todo }
	todoToggledMsg struct{ todo models.Todo }
	todoDeletedMsg struct{ id int64 }
	// opFailedMsg carries the failed operation's id (0 for load/create) so
	// the pending mark can be cleared.
	opFailedMsg struct {
		id  int64
		err error
	}
)

// Model is the Bubble Tea model for the todo list.
type Model struct {
	client  *client.Client
	session *state.Session

	mode       mode
	cursor     int
	confirmID  int64
	loading    bool
	submitting bool
	statusErr  string

	titleInput textinput.Model
	descInput  textinput.Model
	focusDesc  bool
}

// New creates the TUI model for the given server client.
func New(c *client.Client) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Title (required)"
	ti.CharLimit = 200

	di := textinput.New()
	di.Prompt = "> "
	di.Placeholder = "Description (optional)"
	di.CharLimit = 500

	return Model{
		client:     c,
		session:    state.NewSession(),
		loading:    true,
		titleInput: ti,
		descInput:  di,
	}
}

// Run starts the program.
func Run(c *client.Client) error {
	p := tea.NewProgram(New(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.client.List(context.Background())
		if err != nil {
			return opFailedMsg{err: err}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m Model) createCmd(title, description string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.client.Create(context.Background(), title, description)
		if err != nil {
			return opFailedMsg{err: err}
		}
		return todoCreatedMsg{todo: *todo}
	}
}

func (m Model) toggleCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.client.Toggle(context.Background(), id)
		if err != nil {
			return opFailedMsg{id: id, err: err}
		}
		return todoToggledMsg{todo: *todo}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Delete(context.Background(), id); err != nil {
			return opFailedMsg{id: id, err: err}
		}
		return todoDeletedMsg{id: id}
	}
}

// visible returns the rendered order: active items first, then completed.
func (m Model) visible() []models.Todo {
	active, completed := m.session.Partition()
	return append(active, completed...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		m.session.Replace(msg.todos)
		m.loading = false
		m.statusErr = ""
		return m, nil

	case todoCreatedMsg:
		m.session.ApplyCreate(msg.todo)
		m.submitting = false
		m.statusErr = ""
		// Form clears only on success.
		m.titleInput.SetValue("")
		m.descInput.SetValue("")
		m.titleInput.Blur()
		m.descInput.Blur()
		m.focusDesc = false
		m.mode = modeList
		return m, nil

	case todoToggledMsg:
		m.session.ApplyToggle(msg.todo)
		m.statusErr = ""
		return m, nil

	case todoDeletedMsg:
		m.session.ApplyDelete(msg.id)
		m.statusErr = ""
		if n := len(m.visible()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case opFailedMsg:
		// Cache untouched; only the pending mark is cleared so the item
		// becomes interactive again.
		if msg.id != 0 {
			m.session.End(msg.id)
		}
		m.loading = false
		m.submitting = false
		m.statusErr = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visible()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "r":
		m.loading = true
		return m, m.loadCmd()

	case "a":
		m.mode = modeAdd
		m.statusErr = ""
		m.focusDesc = false
		m.titleInput.Focus()

	case " ":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			// Drop the request when one is already in flight for this id.
			if m.session.BeginToggle(id) {
				return m, m.toggleCmd(id)
			}
		}

	case "d":
		if m.cursor < len(items) {
			id := items[m.cursor].ID
			if !m.session.Pending(id) {
				m.confirmID = id
				m.mode = modeConfirmDelete
			}
		}
	}

	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.statusErr = ""
		m.titleInput.Blur()
		m.descInput.Blur()
		return m, nil

	case "tab", "shift+tab":
		m.focusDesc = !m.focusDesc
		if m.focusDesc {
			m.titleInput.Blur()
			m.descInput.Focus()
		} else {
			m.descInput.Blur()
			m.titleInput.Focus()
		}
		return m, nil

	case "enter":
		if m.submitting {
			return m, nil
		}
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			m.statusErr = "Title is required"
			return m, nil
		}
		m.submitting = true
		m.statusErr = ""
		return m, m.createCmd(m.titleInput.Value(), m.descInput.Value())
	}

	var cmd tea.Cmd
	if m.focusDesc {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmID
		m.mode = modeList
		m.confirmID = 0
		if m.session.BeginDelete(id) {
			return m, m.deleteCmd(id)
		}
		return m, nil

	case "n", "N", "esc":
		m.mode = modeList
		m.confirmID = 0
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	active, completed := m.session.Partition()

	b.WriteString(titleStyle.Render("Todo List"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("   %d active, %d completed\n\n", len(active), len(completed))))

	if m.loading {
		b.WriteString(mutedStyle.Render("Loading...\n"))
		return b.String()
	}

	items := m.visible()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("No todos yet. Press 'a' to add one.\n"))
	}

	index := 0
	if len(active) > 0 {
		b.WriteString(sectionStyle.Render("Active") + "\n")
		for _, t := range active {
			b.WriteString(m.renderItem(t, index) + "\n")
			index++
		}
		b.WriteString("\n")
	}
	if len(completed) > 0 {
		b.WriteString(sectionStyle.Render("Completed") + "\n")
		for _, t := range completed {
			b.WriteString(m.renderItem(t, index) + "\n")
			index++
		}
	}

	switch m.mode {
	case modeAdd:
		b.WriteString("\n" + titleStyle.Render("Add todo") + "\n")
		b.WriteString(m.titleInput.View() + "\n")
		b.WriteString(m.descInput.View() + "\n")
		if m.submitting {
			b.WriteString(pendingStyle.Render("Saving...") + "\n")
		}
	case modeConfirmDelete:
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Delete todo #%d? (y/n)", m.confirmID)) + "\n")
	}

	if m.statusErr != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.statusErr) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("a add · space toggle · d delete · r reload · q quit"))
	return b.String()
}

func (m Model) renderItem(t models.Todo, index int) string {
	box := mutedStyle.Render(boxUnchecked)
	text := t.Title
	if t.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(t.Title)
	}

	line := fmt.Sprintf("%s %s", box, text)
	if t.Description != nil {
		line += mutedStyle.Render("  — " + *t.Description)
	}
	if m.session.Pending(t.ID) {
		line += pendingStyle.Render("  …")
	}

	prefix := "  "
	if m.mode == modeList && index == m.cursor {
		prefix = selectedStyle.Render("> ")
		line = selectedStyle.Render(line)
	}
	return prefix + line
}
