package panes

import (
	"fmt"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

const consoleKey = "console"

// Registry is the pane host: an input group, an output group and the
// console. Titles are expected to be unique within a group; callers check
// HasInputPane before adding.
type Registry struct {
	store   *Store
	input   *Group
	output  *Group
	console *Document
	seq     uint64

	// inputKind is Editable on screen and Verbatim without one.
	inputKind Kind

	inputW, inputH   int
	outputW, outputH int
}

var _ compile.PaneRegistry = (*Registry)(nil)

func NewRegistry(store *Store) *Registry {
	if store == nil {
		store = NewStore()
	}
	return &Registry{
		store:   store,
		input:   newGroup("input"),
		output:  newGroup("output"),
		console: store.Create(consoleKey, "Console", "", ReadOnly, compile.ProfilePlain),
	}
}

// NewScreenlessRegistry is a registry whose input documents keep their text
// exactly as given, with no editor in between.
func NewScreenlessRegistry(store *Store) *Registry {
	r := NewRegistry(store)
	r.inputKind = Verbatim
	return r
}

func (r *Registry) Store() *Store      { return r.store }
func (r *Registry) Input() *Group      { return r.input }
func (r *Registry) Output() *Group     { return r.output }
func (r *Registry) Console() *Document { return r.console }

func (r *Registry) key(group, title string) string {
	r.seq++
	return fmt.Sprintf("%s/%d/%s", group, r.seq, title)
}

// AddInputPane appends an input pane and makes it active.
func (r *Registry) AddInputPane(title, text string) *Pane {
	doc := r.store.Create(r.key(r.input.name, title), title, text, r.inputKind, ProfileAlogic)
	doc.SetSize(r.inputW, r.inputH)
	p := &Pane{Title: title, Doc: doc}
	r.input.add(p)
	r.input.Select(r.input.Len() - 1)
	return p
}

func (r *Registry) HasInputPane(title string) bool {
	return r.input.Index(title) >= 0
}

// RemoveInputPane closes the pane titled title and destroys its document.
func (r *Registry) RemoveInputPane(title string) bool {
	i := r.input.Index(title)
	if i < 0 {
		return false
	}
	p := r.input.removeAt(i)
	r.store.Destroy(p.Doc.Key())
	return true
}

// RemoveAllOutputPanes empties the output group. Calling it on an empty
// group does nothing.
func (r *Registry) RemoveAllOutputPanes() {
	for _, p := range r.output.clear() {
		r.store.Destroy(p.Doc.Key())
	}
}

// AddOutputPane appends a read-only pane rendered with profile. The active
// pane does not change unless the group was empty.
func (r *Registry) AddOutputPane(title, text string, profile compile.Profile) {
	doc := r.store.Create(r.key(r.output.name, title), title, text, ReadOnly, profile)
	doc.SetSize(r.outputW, r.outputH)
	r.output.add(&Pane{Title: title, Doc: doc})
}

func (r *Registry) SelectFirstOutputPane() {
	r.output.Select(0)
}

// ListInputPanes snapshots every input pane in display order.
func (r *Registry) ListInputPanes() []compile.Input {
	panes := r.input.Panes()
	out := make([]compile.Input, len(panes))
	for i, p := range panes {
		out[i] = compile.Input{Title: p.Title, Text: p.Doc.Text()}
	}
	return out
}

// Resize sets the body size of every document per area.
func (r *Registry) Resize(inputW, inputH, outputW, outputH, consoleW, consoleH int) {
	r.inputW, r.inputH = inputW, inputH
	r.outputW, r.outputH = outputW, outputH
	for _, p := range r.input.panes {
		p.Doc.SetSize(inputW, inputH)
	}
	for _, p := range r.output.panes {
		p.Doc.SetSize(outputW, outputH)
	}
	r.console.SetSize(consoleW, consoleH)
}
