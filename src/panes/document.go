// Package panes holds the documents shown in the playground and the two tab
// groups (inputs and outputs) that display them.
package panes

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

// Kind says whether the user may edit a document.
type Kind int

const (
	Editable Kind = iota
	ReadOnly
	// Verbatim documents have no widget and keep their text byte for byte.
	// Screenless compiles use them so sources reach the service unchanged.
	Verbatim
)

// ProfileAlogic is the highlight profile of input sources.
const ProfileAlogic compile.Profile = "alogic"

// Document is a named text surface: a textarea when editable, a viewport
// when read-only, a plain string when verbatim.
type Document struct {
	key     string
	title   string
	kind    Kind
	profile compile.Profile

	editor textarea.Model
	viewer viewport.Model
	text   string
}

func newDocument(key, title, text string, kind Kind, profile compile.Profile) *Document {
	d := &Document{key: key, title: title, kind: kind, profile: profile}
	switch kind {
	case Verbatim:
		d.text = text
		return d
	case Editable:
		ta := textarea.New()
		ta.CharLimit = 0
		ta.MaxHeight = 0
		ta.MaxWidth = 0
		ta.ShowLineNumbers = true
		ta.Prompt = ""
		ta.SetValue(text)
		d.editor = ta
		return d
	}
	d.viewer = viewport.New(0, 0)
	d.SetText(text)
	return d
}

func (d *Document) Key() string              { return d.key }
func (d *Document) Title() string            { return d.title }
func (d *Document) Kind() Kind               { return d.kind }
func (d *Document) ReadOnly() bool           { return d.kind == ReadOnly }
func (d *Document) Profile() compile.Profile { return d.profile }

// Text returns the current content.
func (d *Document) Text() string {
	if d.kind == Editable {
		return d.editor.Value()
	}
	return d.text
}

// SetText replaces the whole content. Read-only views scroll back to the
// top.
func (d *Document) SetText(text string) {
	switch d.kind {
	case Editable:
		d.editor.SetValue(text)
		return
	case Verbatim:
		d.text = text
		return
	}
	d.text = text
	d.viewer.SetContent(text)
	d.viewer.GotoTop()
}

func (d *Document) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	switch d.kind {
	case Verbatim:
		return
	case Editable:
		d.editor.SetWidth(width)
		d.editor.SetHeight(height)
		return
	}
	d.viewer.Width = width
	d.viewer.Height = height
}

func (d *Document) Focus() tea.Cmd {
	if d.kind == Editable {
		return d.editor.Focus()
	}
	return nil
}

func (d *Document) Blur() {
	if d.kind == Editable {
		d.editor.Blur()
	}
}

// Update routes keys and mouse events to the underlying widget.
func (d *Document) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.kind {
	case Verbatim:
		return nil
	case Editable:
		d.editor, cmd = d.editor.Update(msg)
		return cmd
	}
	d.viewer, cmd = d.viewer.Update(msg)
	return cmd
}

func (d *Document) View() string {
	switch d.kind {
	case Editable:
		return d.editor.View()
	case Verbatim:
		return d.text
	}
	return d.viewer.View()
}
