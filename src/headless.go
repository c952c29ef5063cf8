package src

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
	"github.com/Protocol-Lattice/alogic-playground/src/panes"
)

// Per-file outcomes of writing outputs to disk.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
)

type HeadlessOptions struct {
	Transport compile.Transport
	Args      string
	Inputs    []compile.Input
	// OutDir, when set, receives every output file.
	OutDir  string
	Logger  *slog.Logger
	Timeout time.Duration
	// LockWait is called while another writer holds OutDir.
	LockWait func(wait time.Duration, holder LockOwner)
}

type FileAction struct {
	Path    string
	Action  string
	Profile compile.Profile
	Diff    string
	// DiffOmitted is set when an update was too large to diff.
	DiffOmitted bool
}

type HeadlessResult struct {
	Console string
	Outputs []compile.Output
	Actions []FileAction
}

// Output returns the output called name.
func (r *HeadlessResult) Output(name string) (compile.Output, bool) {
	for _, o := range r.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return compile.Output{}, false
}

// RunHeadless compiles inputs without a screen, using the same pane registry
// and orchestrator as the playground. Input text is sent exactly as given.
func RunHeadless(ctx context.Context, opts HeadlessOptions) (*HeadlessResult, error) {
	if opts.Transport == nil {
		return nil, errors.New("transport is nil")
	}
	if len(opts.Inputs) == 0 {
		return nil, errors.New("no input files")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	reg := panes.NewScreenlessRegistry(nil)
	for _, in := range opts.Inputs {
		if reg.HasInputPane(in.Title) {
			return nil, fmt.Errorf("duplicate input file %q", in.Title)
		}
		reg.AddInputPane(in.Title, in.Text)
	}

	orch, err := compile.NewOrchestrator(compile.Options{
		Transport: opts.Transport,
		Panes:     reg,
		Console:   reg.Console(),
		Arguments: func() string { return opts.Args },
		Logger:    opts.Logger,
		Timeout:   opts.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := orch.Run(ctx); err != nil {
		return nil, err
	}

	res := &HeadlessResult{Console: reg.Console().Text()}
	for _, p := range reg.Output().Panes() {
		res.Outputs = append(res.Outputs, compile.Output{
			Name:    p.Title,
			Text:    p.Doc.Text(),
			Profile: p.Doc.Profile(),
		})
	}

	if opts.OutDir == "" {
		return res, nil
	}
	actions, err := writeOutputs(ctx, opts.OutDir, res.Outputs, opts.LockWait)
	if err != nil {
		return res, err
	}
	res.Actions = actions
	for _, a := range actions {
		opts.Logger.Info("output written", "path", a.Path, "action", a.Action)
	}
	return res, nil
}

func writeOutputs(ctx context.Context, outDir string, outputs []compile.Output, hook lockWaitHook) (_ []FileAction, err error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	// Check every name before touching the directory.
	targets := make([]string, len(outputs))
	for i, o := range outputs {
		if targets[i], err = safeJoin(abs, o.Name); err != nil {
			return nil, err
		}
	}

	release, err := acquireOutputLock(ctx, abs, hook)
	if err != nil {
		return nil, err
	}
	defer func() {
		if relErr := release(); err == nil {
			err = relErr
		}
	}()

	actions := make([]FileAction, 0, len(outputs))
	for i, o := range outputs {
		data := []byte(o.Text)
		action := FileAction{Path: o.Name, Profile: o.Profile}

		old, readErr := os.ReadFile(targets[i])
		switch {
		case errors.Is(readErr, fs.ErrNotExist):
			action.Action = ActionCreated
		case readErr != nil:
			return actions, readErr
		case bytes.Equal(old, data):
			action.Action = ActionUnchanged
			actions = append(actions, action)
			continue
		default:
			action.Action = ActionUpdated
			var ok bool
			action.Diff, ok = UnifiedDiff(o.Name, old, data)
			action.DiffOmitted = !ok
		}

		if err := os.MkdirAll(filepath.Dir(targets[i]), 0o755); err != nil {
			return actions, err
		}
		if err := os.WriteFile(targets[i], data, 0o644); err != nil {
			return actions, fmt.Errorf("write %s: %w", o.Name, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// safeJoin resolves an output name under root. The lock directory is
// reserved.
func safeJoin(root, name string) (string, error) {
	p, err := compile.ResolveName(root, name)
	if err != nil {
		return "", err
	}
	rel, _ := filepath.Rel(root, p)
	if rel == lockName || strings.HasPrefix(rel, lockName+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", compile.ErrUnsafeName, name)
	}
	return p, nil
}
