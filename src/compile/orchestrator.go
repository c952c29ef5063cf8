package compile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned by Submit while another compile is in flight.
var ErrBusy = errors.New("a compile is already in progress")

// DefaultTimeout bounds a single compile round trip.
const DefaultTimeout = 60 * time.Second

// PaneRegistry is the pane host as the orchestrator uses it.
type PaneRegistry interface {
	ListInputPanes() []Input
	RemoveAllOutputPanes()
	AddOutputPane(title, text string, profile Profile)
	SelectFirstOutputPane()
}

// Console receives the diagnostic text of each successful compile.
type Console interface {
	SetText(text string)
}

// Signals is how the orchestrator tells the UI about busy state and
// failures.
type Signals interface {
	SetBusy(on bool)
	ReportFailure(err error)
}

type Options struct {
	Transport Transport
	Panes     PaneRegistry
	Console   Console
	// Arguments returns the current argument line.
	Arguments func() string
	Signals   Signals
	Logger    *slog.Logger
	// Timeout per request; zero means DefaultTimeout, negative disables it.
	Timeout time.Duration
}

// Orchestrator owns the Idle -> Busy -> Idle compile lifecycle. Submit and
// Complete must be called from the event loop; only Dispatch may run
// elsewhere.
type Orchestrator struct {
	opts Options
	slot *semaphore.Weighted

	mu      sync.Mutex
	current *Submission
}

// Submission is one in-flight compile.
type Submission struct {
	ID      string
	Request Request
	Started time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	transport Transport
}

// Result is what Dispatch produced for a submission.
type Result struct {
	Submission *Submission
	Response   Response
	Err        error
	Elapsed    time.Duration
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Transport == nil {
		return nil, errors.New("orchestrator: transport is required")
	}
	if opts.Panes == nil {
		return nil, errors.New("orchestrator: pane registry is required")
	}
	if opts.Console == nil {
		return nil, errors.New("orchestrator: console is required")
	}
	if opts.Arguments == nil {
		opts.Arguments = func() string { return "" }
	}
	if opts.Signals == nil {
		opts.Signals = nopSignals{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Orchestrator{opts: opts, slot: semaphore.NewWeighted(1)}, nil
}

// Busy reports whether a submission is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil
}

// Submit enters the busy state and prepares the request from the current
// panes and argument line. It does not touch the network.
func (o *Orchestrator) Submit(ctx context.Context) (*Submission, error) {
	if !o.slot.TryAcquire(1) {
		return nil, ErrBusy
	}
	o.opts.Signals.SetBusy(true)

	req := BuildRequest(o.opts.Arguments(), o.opts.Panes.ListInputPanes())
	id := uuid.NewString()
	ctx = WithRequestID(ctx, id)
	var cancel context.CancelFunc
	if o.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	sub := &Submission{
		ID:        id,
		Request:   req,
		Started:   time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		transport: o.opts.Transport,
	}

	o.mu.Lock()
	o.current = sub
	o.mu.Unlock()

	o.opts.Logger.Info("compile submitted", "id", id, "args", req.Args, "files", len(req.Files))
	return sub, nil
}

// Dispatch performs the round trip. It blocks and is safe to call off the
// event loop.
func (s *Submission) Dispatch() Result {
	resp, err := s.transport.Compile(s.ctx, s.Request)
	return Result{Submission: s, Response: resp, Err: err, Elapsed: time.Since(s.Started)}
}

// Cancel aborts the in-flight request, if any. Its result still arrives
// through Complete as a canceled failure.
func (o *Orchestrator) Cancel() bool {
	o.mu.Lock()
	sub := o.current
	o.mu.Unlock()
	if sub == nil {
		return false
	}
	sub.cancel()
	return true
}

// Complete applies a dispatch result and leaves the busy state.
func (o *Orchestrator) Complete(res Result) {
	o.mu.Lock()
	if res.Submission == nil || res.Submission != o.current {
		o.mu.Unlock()
		o.opts.Logger.Warn("dropping stale compile result", "id", submissionID(res.Submission))
		return
	}
	o.current = nil
	o.mu.Unlock()

	sub := res.Submission
	defer func() {
		sub.cancel()
		o.opts.Signals.SetBusy(false)
		o.slot.Release(1)
	}()

	if res.Err != nil {
		o.opts.Logger.Error("compile failed",
			"id", sub.ID,
			"kind", KindOf(res.Err),
			"elapsed", res.Elapsed,
			"args", sub.Request.Args,
			"files", fileNames(sub.Request.Files),
			"error", res.Err,
		)
		o.opts.Signals.ReportFailure(res.Err)
		return
	}

	o.opts.Console.SetText(res.Response.ConsoleText())
	o.opts.Panes.RemoveAllOutputPanes()
	outs := OrderedOutputs(res.Response.Files)
	for _, out := range outs {
		o.opts.Panes.AddOutputPane(out.Name, out.Text, out.Profile)
	}
	if len(outs) > 0 {
		o.opts.Panes.SelectFirstOutputPane()
	}
	o.opts.Logger.Info("compile finished",
		"id", sub.ID,
		"elapsed", res.Elapsed,
		"messages", len(res.Response.Messages),
		"outputs", len(outs),
	)
}

// Run submits, dispatches and completes in one call. It returns ErrBusy or
// the transport error; on success the panes are already updated.
func (o *Orchestrator) Run(ctx context.Context) error {
	sub, err := o.Submit(ctx)
	if err != nil {
		return err
	}
	res := sub.Dispatch()
	o.Complete(res)
	if res.Err != nil {
		return fmt.Errorf("compile %s: %w", sub.ID, res.Err)
	}
	return nil
}

func submissionID(s *Submission) string {
	if s == nil {
		return ""
	}
	return s.ID
}

func fileNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type nopSignals struct{}

func (nopSignals) SetBusy(bool)        {}
func (nopSignals) ReportFailure(error) {}
