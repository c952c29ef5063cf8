package src

import (
	"github.com/Protocol-Lattice/alogic-playground/src/panes"
	"github.com/Protocol-Lattice/alogic-playground/src/ui"
)

func (m *model) View() string {
	return ui.Render(m.uiState(), m.style)
}

func (m *model) uiState() ui.State {
	in, out := m.panes.Input(), m.panes.Output()
	return ui.State{
		Mode:        m.mode,
		Focus:       m.focus,
		Width:       m.width,
		Height:      m.height,
		Version:     m.version,
		InputTabs:   tabs(in, false),
		OutputTabs:  tabs(out, true),
		InputBody:   activeView(in),
		OutputBody:  activeView(out),
		ConsoleBody: m.panes.Console().View(),
		Busy:        m.busy,
		BusyText:    busyText,
		Status:      ui.StatusLine(m.status, m.width),
		StatusOK:    m.statusOK,
		WorkingDir:  m.working,
		Args:        m.args,
		Prompt:      m.prompt,
		FileList:    m.files,
		Spinner:     m.spinner,
	}
}

func tabs(g *panes.Group, badges bool) []ui.Tab {
	ps := g.Panes()
	out := make([]ui.Tab, 0, len(ps))
	for i, p := range ps {
		t := ui.Tab{Title: p.Title, Active: i == g.ActiveIndex()}
		if badges {
			t.Badge = string(p.Doc.Profile())
		}
		out = append(out, t)
	}
	return out
}

func activeView(g *panes.Group) string {
	if p := g.Active(); p != nil {
		return p.Doc.View()
	}
	return ""
}
