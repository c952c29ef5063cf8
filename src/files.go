package src

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Protocol-Lattice/alogic-playground/src/ui"
)

const (
	// maxOpenSize caps files loaded into an input pane.
	maxOpenSize = 1 << 20
	// maxOpenLines is the editor's row limit; longer text would be cut off.
	maxOpenLines = 10000
)

type fileItem struct {
	name string
	path string
	dir  bool
}

func (f fileItem) Title() string       { return f.name }
func (f fileItem) Description() string { return f.path }
func (f fileItem) FilterValue() string { return f.name }

func loadEntries(path string) []list.Item {
	if path == "" {
		path, _ = os.Getwd()
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return []list.Item{fileItem{name: "(error reading dir)", path: path, dir: true}}
	}
	var items []list.Item

	if path != "/" {
		items = append(items, fileItem{name: "⬆️ ../", path: filepath.Dir(path), dir: true})
	}

	// Directories first, then files; ReadDir already sorts by name.
	for _, e := range entries {
		if e.IsDir() {
			items = append(items, fileItem{name: "📁 " + e.Name() + "/", path: filepath.Join(path, e.Name()), dir: true})
		}
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			items = append(items, fileItem{name: e.Name(), path: filepath.Join(path, e.Name())})
		}
	}
	return items
}

func (m *model) openDir(path string) {
	if path == "" {
		path, _ = os.Getwd()
	}
	m.working = path
	m.files.SetItems(loadEntries(path))
	m.files.Select(0)
}

func (m *model) updateOpenFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ui.ModeEdit
		return m, m.applyFocus()

	case "left":
		if parent := filepath.Dir(m.working); parent != m.working {
			m.openDir(parent)
		}
		return m, nil

	case "enter":
		item, ok := m.files.SelectedItem().(fileItem)
		if !ok {
			return m, nil
		}
		if item.dir {
			if info, err := os.Stat(item.path); err == nil && info.IsDir() {
				m.openDir(item.path)
			}
			return m, nil
		}
		if err := m.openFile(item.path); err != nil {
			m.setStatus(err.Error(), false)
			return m, nil
		}
		m.mode = ui.ModeEdit
		m.focus = ui.FocusInput
		return m, m.applyFocus()
	}
	var cmd tea.Cmd
	m.files, cmd = m.files.Update(msg)
	return m, cmd
}

// openFile loads path into a new input pane titled by its base name.
func (m *model) openFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxOpenSize {
		return fmt.Errorf("%s is too large to open (%d bytes)", filepath.Base(path), info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%s is not a text file", filepath.Base(path))
	}
	// The editor keeps lines split on LF only.
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if rows := strings.Count(text, "\n") + 1; rows > maxOpenLines {
		return fmt.Errorf("%s has %d lines; the editor holds at most %d", filepath.Base(path), rows, maxOpenLines)
	}
	title := filepath.Base(path)
	if err := m.addInput(title, text); err != nil {
		return err
	}
	m.log.Info("opened input file", "path", path, "bytes", len(data))
	m.setStatus(fmt.Sprintf("Opened %s", title), true)
	return nil
}
