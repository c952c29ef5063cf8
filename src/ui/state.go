package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
)

// Mode represents the current UI state
type Mode int

const (
	ModeEdit Mode = iota
	ModeNewFile
	ModeOpenFile
)

// Focus is the area receiving keys in ModeEdit.
type Focus int

const (
	FocusArgs Focus = iota
	FocusInput
	FocusOutput
	FocusConsole
)

// Next cycles args -> input -> output -> console.
func (f Focus) Next() Focus { return (f + 1) % 4 }

// Tab is one entry of a tab strip.
type Tab struct {
	Title  string
	Badge  string
	Active bool
}

// State contains all the data required to render the UI.
// This decouples the renderer from the main application logic.
type State struct {
	Mode    Mode
	Focus   Focus
	Width   int
	Height  int
	Version string

	InputTabs   []Tab
	OutputTabs  []Tab
	InputBody   string
	OutputBody  string
	ConsoleBody string

	Busy     bool
	BusyText string
	Status   string
	StatusOK bool

	WorkingDir string

	// Bubble Tea models
	Args     textinput.Model
	Prompt   textinput.Model
	FileList list.Model
	Spinner  spinner.Model
}
