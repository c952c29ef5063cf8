package panes

// Pane is one tab of a group, bound to exactly one document.
type Pane struct {
	Title string
	Doc   *Document
}

// Group is an ordered tab strip with one active tab.
type Group struct {
	name   string
	panes  []*Pane
	active int
}

func newGroup(name string) *Group {
	return &Group{name: name, active: -1}
}

func (g *Group) Name() string { return g.name }
func (g *Group) Len() int     { return len(g.panes) }

// Panes returns the panes in display order.
func (g *Group) Panes() []*Pane {
	return append([]*Pane(nil), g.panes...)
}

// ActiveIndex is -1 for an empty group.
func (g *Group) ActiveIndex() int { return g.active }

func (g *Group) Active() *Pane {
	if g.active < 0 || g.active >= len(g.panes) {
		return nil
	}
	return g.panes[g.active]
}

// Select makes the i-th pane active. Out of range indexes are ignored.
func (g *Group) Select(i int) bool {
	if i < 0 || i >= len(g.panes) {
		return false
	}
	g.active = i
	return true
}

func (g *Group) Next() bool { return g.step(1) }
func (g *Group) Prev() bool { return g.step(-1) }

func (g *Group) step(delta int) bool {
	if len(g.panes) <= 1 {
		return false
	}
	g.active = (g.active + delta + len(g.panes)) % len(g.panes)
	return true
}

// Index returns the position of the first pane titled title, or -1.
func (g *Group) Index(title string) int {
	for i, p := range g.panes {
		if p.Title == title {
			return i
		}
	}
	return -1
}

func (g *Group) add(p *Pane) {
	g.panes = append(g.panes, p)
	if g.active < 0 {
		g.active = 0
	}
}

func (g *Group) removeAt(i int) *Pane {
	p := g.panes[i]
	g.panes = append(g.panes[:i], g.panes[i+1:]...)
	switch {
	case len(g.panes) == 0:
		g.active = -1
	case g.active > i || g.active >= len(g.panes):
		g.active--
	}
	return p
}

func (g *Group) clear() []*Pane {
	old := g.panes
	g.panes = nil
	g.active = -1
	return old
}
