package compile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePane struct {
	title   string
	text    string
	profile Profile
}

type fakeWorkspace struct {
	t        *testing.T
	inputs   []Input
	outputs  []fakePane
	selected int
	console  string
	busy     bool
	busyLog  []bool
	failures []error
}

func (w *fakeWorkspace) ListInputPanes() []Input { return append([]Input(nil), w.inputs...) }
func (w *fakeWorkspace) RemoveAllOutputPanes()   { w.outputs = nil; w.selected = -1 }
func (w *fakeWorkspace) AddOutputPane(title, text string, p Profile) {
	w.outputs = append(w.outputs, fakePane{title, text, p})
}
func (w *fakeWorkspace) SelectFirstOutputPane() {
	if len(w.outputs) > 0 {
		w.selected = 0
	}
}
func (w *fakeWorkspace) SetText(text string) { w.console = text }
func (w *fakeWorkspace) SetBusy(on bool) {
	w.busy = on
	w.busyLog = append(w.busyLog, on)
}
func (w *fakeWorkspace) ReportFailure(err error) { w.failures = append(w.failures, err) }

type fakeTransport struct {
	mu    sync.Mutex
	calls int
	resp  Response
	err   error
	// observe runs inside Compile, while the request is in flight.
	observe func(ctx context.Context)
}

func (f *fakeTransport) Compile(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.observe != nil {
		f.observe(ctx)
	}
	return f.resp, f.err
}

func newTestOrchestrator(t *testing.T, tr Transport, ws *fakeWorkspace, args string) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(Options{
		Transport: tr,
		Panes:     ws,
		Console:   ws,
		Arguments: func() string { return args },
		Signals:   ws,
	})
	require.NoError(t, err)
	return o
}

func TestOrchestratorEndToEnd(t *testing.T) {
	ws := &fakeWorkspace{
		t:        t,
		inputs:   []Input{{Title: "top.alogic", Text: "fsm example {...}"}},
		outputs:  []fakePane{{title: "stale.v", text: "old"}},
		selected: 0,
		console:  "previous",
	}
	var seen Request
	tr := &fakeTransport{resp: Response{
		Messages: []Message{{Text: "Compiled OK"}},
		Files:    map[string]string{"top.v": "module top; endmodule", "out.json": "{}"},
	}}
	o := newTestOrchestrator(t, tr, ws, "-o out top.alogic")
	tr.observe = func(context.Context) {
		require.True(t, ws.busy, "busy while in flight")
		require.True(t, o.Busy())
	}

	sub, err := o.Submit(context.Background())
	require.NoError(t, err)
	seen = sub.Request
	res := sub.Dispatch()
	o.Complete(res)

	require.Equal(t, []string{"-o", "out", "top.alogic"}, seen.Args)
	require.Equal(t, map[string]string{"top.alogic": "fsm example {...}"}, seen.Files)

	require.Equal(t, "Compiled OK", ws.console)
	require.Equal(t, []fakePane{
		{title: "top.v", text: "module top; endmodule", profile: ProfileVerilog},
		{title: "out.json", text: "{}", profile: ProfileJSON},
	}, ws.outputs)
	require.Equal(t, 0, ws.selected)
	require.Equal(t, []bool{true, false}, ws.busyLog)
	require.False(t, o.Busy())
	require.Empty(t, ws.failures)
}

func TestOrchestratorRejectsSecondSubmit(t *testing.T) {
	ws := &fakeWorkspace{t: t}
	tr := &fakeTransport{resp: Response{Files: map[string]string{}}}
	o := newTestOrchestrator(t, tr, ws, "")

	sub, err := o.Submit(context.Background())
	require.NoError(t, err)

	_, err = o.Submit(context.Background())
	require.ErrorIs(t, err, ErrBusy)
	require.ErrorIs(t, o.Run(context.Background()), ErrBusy)

	o.Complete(sub.Dispatch())
	require.Equal(t, 1, tr.calls)
	require.Equal(t, []bool{true, false}, ws.busyLog)

	// Idle again: a retry goes through.
	require.NoError(t, o.Run(context.Background()))
	require.Equal(t, 2, tr.calls)
}

func TestOrchestratorFailureLeavesPanesAlone(t *testing.T) {
	ws := &fakeWorkspace{
		t:        t,
		outputs:  []fakePane{{title: "top.v", text: "kept", profile: ProfileVerilog}},
		selected: 0,
		console:  "kept console",
	}
	boom := &TransportError{Kind: KindNetwork, Err: errors.New("connection refused")}
	tr := &fakeTransport{err: boom}
	o := newTestOrchestrator(t, tr, ws, "")

	err := o.Run(context.Background())
	require.ErrorIs(t, err, boom)

	require.Equal(t, "kept console", ws.console)
	require.Equal(t, []fakePane{{title: "top.v", text: "kept", profile: ProfileVerilog}}, ws.outputs)
	require.Equal(t, []bool{true, false}, ws.busyLog)
	require.Len(t, ws.failures, 1)
	require.ErrorIs(t, ws.failures[0], boom)
	require.False(t, o.Busy())
}

func TestOrchestratorEmptyResults(t *testing.T) {
	ws := &fakeWorkspace{
		t:        t,
		outputs:  []fakePane{{title: "Output"}},
		selected: 0,
	}
	tr := &fakeTransport{resp: Response{Messages: []Message{{Text: "nothing to do"}}, Files: map[string]string{}}}
	o := newTestOrchestrator(t, tr, ws, "")

	require.NoError(t, o.Run(context.Background()))
	require.Empty(t, ws.outputs)
	require.Equal(t, -1, ws.selected)
	require.Equal(t, "nothing to do", ws.console)
}

func TestOrchestratorCancel(t *testing.T) {
	ws := &fakeWorkspace{t: t}
	started := make(chan struct{})
	tr := &blockingTransport{started: started}
	o := newTestOrchestrator(t, tr, ws, "")

	require.False(t, o.Cancel())

	sub, err := o.Submit(context.Background())
	require.NoError(t, err)

	done := make(chan Result, 1)
	go func() { done <- sub.Dispatch() }()
	<-started
	require.True(t, o.Cancel())

	select {
	case res := <-done:
		o.Complete(res)
		require.Equal(t, KindCanceled, KindOf(res.Err))
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not return after cancel")
	}
	require.False(t, ws.busy)
	require.Len(t, ws.failures, 1)
}

func TestOrchestratorTimeout(t *testing.T) {
	ws := &fakeWorkspace{t: t}
	tr := &blockingTransport{started: make(chan struct{}, 1)}
	o, err := NewOrchestrator(Options{
		Transport: tr,
		Panes:     ws,
		Console:   ws,
		Signals:   ws,
		Timeout:   20 * time.Millisecond,
	})
	require.NoError(t, err)

	err = o.Run(context.Background())
	require.Equal(t, KindTimeout, KindOf(err))
	require.Equal(t, []bool{true, false}, ws.busyLog)
}

func TestOrchestratorDropsStaleResult(t *testing.T) {
	ws := &fakeWorkspace{t: t}
	tr := &fakeTransport{resp: Response{Messages: []Message{{Text: "new"}}, Files: map[string]string{}}}
	o := newTestOrchestrator(t, tr, ws, "")

	sub, err := o.Submit(context.Background())
	require.NoError(t, err)
	res := sub.Dispatch()
	o.Complete(res)
	require.Equal(t, "new", ws.console)

	ws.console = "untouched"
	o.Complete(res)
	o.Complete(Result{})
	require.Equal(t, "untouched", ws.console)
	require.Equal(t, []bool{true, false}, ws.busyLog)
}

func TestNewOrchestratorRequiresCollaborators(t *testing.T) {
	ws := &fakeWorkspace{t: t}
	_, err := NewOrchestrator(Options{Panes: ws, Console: ws})
	require.Error(t, err)
	_, err = NewOrchestrator(Options{Transport: &fakeTransport{}, Console: ws})
	require.Error(t, err)
	_, err = NewOrchestrator(Options{Transport: &fakeTransport{}, Panes: ws})
	require.Error(t, err)
}

type blockingTransport struct {
	started chan struct{}
}

func (b *blockingTransport) Compile(ctx context.Context, req Request) (Response, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	return Response{}, contextError(ctx)
}
