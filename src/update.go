package src

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Protocol-Lattice/alogic-playground/src/panes"
	"github.com/Protocol-Lattice/alogic-playground/src/ui"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil

	case compileDoneMsg:
		m.orch.Complete(msg.res)
		if msg.res.Err == nil {
			n := len(msg.res.Response.Files)
			m.setStatus(fmt.Sprintf("Compiled %d output file(s) in %s", n, msg.res.Elapsed.Round(time.Millisecond)), true)
		}
		return m, m.applyFocus()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Only cancel gets through while a compile is in flight.
		if m.busy {
			if msg.String() == "esc" && m.orch.Cancel() {
				m.setStatus("Canceling compile...", false)
			}
			return m, nil
		}
		switch m.mode {
		case ui.ModeNewFile:
			return m.updateNewFile(msg)
		case ui.ModeOpenFile:
			return m.updateOpenFile(msg)
		}
		return m.updateEdit(msg)
	}

	if m.busy {
		return m, nil
	}
	return m, m.forward(msg)
}

func (m *model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		return m.submit()

	case "tab":
		m.focus = m.focus.Next()
		return m, m.applyFocus()

	case "ctrl+right", "alt+]":
		if g := m.focusedGroup(); g != nil && g.Next() {
			return m, m.applyFocus()
		}
		return m, nil

	case "ctrl+left", "alt+[":
		if g := m.focusedGroup(); g != nil && g.Prev() {
			return m, m.applyFocus()
		}
		return m, nil

	case "ctrl+n":
		m.mode = ui.ModeNewFile
		m.prompt.Reset()
		m.blurAll()
		return m, m.prompt.Focus()

	case "ctrl+o":
		m.mode = ui.ModeOpenFile
		m.blurAll()
		m.openDir(m.working)
		return m, nil

	case "ctrl+w":
		m.closeInput()
		return m, m.applyFocus()
	}
	return m, m.forward(msg)
}

func (m *model) updateNewFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ui.ModeEdit
		m.prompt.Blur()
		return m, m.applyFocus()

	case "enter":
		title := strings.TrimSpace(m.prompt.Value())
		if err := m.addInput(title, ""); err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.mode = ui.ModeEdit
		m.prompt.Blur()
		m.focus = ui.FocusInput
		m.setStatus(fmt.Sprintf("Created %s", title), true)
		return m, m.applyFocus()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

var (
	errEmptyTitle     = errors.New("file name cannot be empty")
	errDuplicateTitle = errors.New("an input file with that name already exists")
)

func (m *model) addInput(title, text string) error {
	if title == "" {
		return errEmptyTitle
	}
	if m.panes.HasInputPane(title) {
		return fmt.Errorf("%w: %s", errDuplicateTitle, title)
	}
	m.panes.AddInputPane(title, text)
	return nil
}

func (m *model) closeInput() {
	in := m.panes.Input()
	if in.Len() <= 1 {
		m.setStatus("The last input file cannot be closed", false)
		return
	}
	if p := in.Active(); p != nil {
		m.panes.RemoveInputPane(p.Title)
		m.setStatus(fmt.Sprintf("Closed %s", p.Title), true)
	}
}

// submit starts a compile. The round trip runs in a command and comes back
// as compileDoneMsg.
func (m *model) submit() (tea.Model, tea.Cmd) {
	sub, err := m.orch.Submit(m.ctx)
	if err != nil {
		m.setStatus(err.Error(), false)
		return m, nil
	}
	m.blurAll()
	dispatch := func() tea.Msg {
		return compileDoneMsg{res: sub.Dispatch()}
	}
	return m, tea.Batch(dispatch, m.spinner.Tick)
}

func (m *model) focusedGroup() *panes.Group {
	switch m.focus {
	case ui.FocusInput:
		return m.panes.Input()
	case ui.FocusOutput:
		return m.panes.Output()
	}
	return nil
}

func (m *model) focusedDoc() *panes.Document {
	if m.focus == ui.FocusConsole {
		return m.panes.Console()
	}
	if g := m.focusedGroup(); g != nil {
		if p := g.Active(); p != nil {
			return p.Doc
		}
	}
	return nil
}

func (m *model) blurAll() {
	m.args.Blur()
	for _, p := range m.panes.Input().Panes() {
		p.Doc.Blur()
	}
}

// applyFocus gives keyboard focus to the focused area only.
func (m *model) applyFocus() tea.Cmd {
	m.blurAll()
	if m.busy || m.mode != ui.ModeEdit {
		return nil
	}
	if m.focus == ui.FocusArgs {
		return m.args.Focus()
	}
	if d := m.focusedDoc(); d != nil {
		return d.Focus()
	}
	return nil
}

// forward hands a message to whatever currently has focus.
func (m *model) forward(msg tea.Msg) tea.Cmd {
	switch m.mode {
	case ui.ModeNewFile:
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	case ui.ModeOpenFile:
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return cmd
	}
	if m.focus == ui.FocusArgs {
		var cmd tea.Cmd
		m.args, cmd = m.args.Update(msg)
		return cmd
	}
	if d := m.focusedDoc(); d != nil {
		return d.Update(msg)
	}
	return nil
}

func (m *model) relayout() {
	l := ui.ComputeLayout(m.width, m.height)
	m.panes.Resize(l.InputW, l.InputH, l.OutputW, l.OutputH, l.ConsoleW, l.ConsoleH)
	m.args.Width = l.ArgsW
	m.prompt.Width = l.ArgsW
	m.files.SetSize(m.width, m.height-4)
}
