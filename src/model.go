package src

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
	"github.com/Protocol-Lattice/alogic-playground/src/panes"
	"github.com/Protocol-Lattice/alogic-playground/src/ui"
)

const (
	DefaultArgs      = "-o out top.alogic"
	DefaultSeedTitle = "top.alogic"

	busyText = "Compiling Alogic"
)

// SeedSource is the text of the document present at startup.
var SeedSource = strings.Join([]string{
	"fsm example {",
	"  in  u8 a;",
	"  in  u8 b;",
	"  out u8 s;",
	"",
	"  void main() {",
	"   s = a + b;",
	"   fence;",
	"  }",
	"}",
}, "\n")

// Options configures the playground model.
type Options struct {
	Transport compile.Transport
	Args      string
	SeedTitle string
	Timeout   time.Duration
	Logger    *slog.Logger
	Version   string
	StartDir  string
}

type compileDoneMsg struct {
	res compile.Result
}

type model struct {
	ctx     context.Context
	orch    *compile.Orchestrator
	panes   *panes.Registry
	log     *slog.Logger
	version string

	mode     ui.Mode
	focus    ui.Focus
	args     textinput.Model
	prompt   textinput.Model
	files    list.Model
	working  string
	spinner  spinner.Model
	busy     bool
	status   string
	statusOK bool
	width    int
	height   int
	style    ui.Styles
}

var _ compile.Signals = (*model)(nil)

func NewModel(ctx context.Context, opts Options) (*model, error) {
	if opts.Args == "" {
		opts.Args = DefaultArgs
	}
	if opts.SeedTitle == "" {
		opts.SeedTitle = DefaultSeedTitle
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	st := ui.NewStyles()

	args := textinput.New()
	args.Prompt = ""
	args.Placeholder = "compiler arguments"
	args.SetValue(opts.Args)

	prompt := textinput.New()
	prompt.Placeholder = "name.alogic"

	fileList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Open Input File"
	fileList.SetShowHelp(false)
	fileList.SetShowStatusBar(false)
	fileList.SetFilteringEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = st.Busy

	reg := panes.NewRegistry(nil)
	reg.AddInputPane(opts.SeedTitle, SeedSource)
	reg.AddOutputPane("Output", "", compile.ProfilePlain)
	reg.SelectFirstOutputPane()

	m := &model{
		ctx:     ctx,
		panes:   reg,
		log:     opts.Logger,
		version: opts.Version,
		mode:    ui.ModeEdit,
		focus:   ui.FocusInput,
		args:    args,
		prompt:  prompt,
		files:   fileList,
		working: opts.StartDir,
		spinner: s,
		style:   st,
	}

	orch, err := compile.NewOrchestrator(compile.Options{
		Transport: opts.Transport,
		Panes:     reg,
		Console:   reg.Console(),
		Arguments: func() string { return m.args.Value() },
		Signals:   m,
		Logger:    opts.Logger,
		Timeout:   opts.Timeout,
	})
	if err != nil {
		return nil, err
	}
	m.orch = orch
	m.applyFocus()
	return m, nil
}

func (m *model) Init() tea.Cmd { return textinput.Blink }

// SetBusy implements compile.Signals.
func (m *model) SetBusy(on bool) {
	m.busy = on
	if on {
		m.status = ""
	}
}

// ReportFailure implements compile.Signals.
func (m *model) ReportFailure(err error) {
	if compile.KindOf(err) == compile.KindCanceled {
		m.setStatus("Compile canceled", false)
		return
	}
	m.setStatus(fmt.Sprintf("Compile failed: %v", err), false)
}

func (m *model) setStatus(text string, ok bool) {
	m.status = text
	m.statusOK = ok
}
