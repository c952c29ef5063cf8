// Package service is a local stand-in for the hosted compile function. It
// speaks the same JSON protocol and runs a compiler binary per request.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

const maxRequestBytes = 8 << 20

type Handler struct {
	runner   Runner
	workRoot string
	log      *slog.Logger
	mux      *http.ServeMux
}

type Option func(*Handler)

// WithWorkRoot sets where per-request work directories are created.
func WithWorkRoot(dir string) Option { return func(h *Handler) { h.workRoot = dir } }

func WithLogger(l *slog.Logger) Option { return func(h *Handler) { h.log = l } }

func NewHandler(r Runner, opts ...Option) *Handler {
	h := &Handler{
		runner:   r,
		workRoot: os.TempDir(),
		log:      slog.New(slog.DiscardHandler),
		mux:      http.NewServeMux(),
	}
	for _, o := range opts {
		o(h)
	}
	h.mux.HandleFunc("POST /{$}", h.compile)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) compile(w http.ResponseWriter, r *http.Request) {
	// The id only tags logs and the reply; it never names anything on disk.
	id := r.Header.Get("X-Request-Id")
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	ctx := compile.WithRequestID(r.Context(), id)

	var req compile.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Kind != compile.KindCompile {
		http.Error(w, fmt.Sprintf("unsupported request %q", req.Kind), http.StatusBadRequest)
		return
	}

	// Clients may reuse an id, so every request gets its own directory.
	dir, err := os.MkdirTemp(h.workRoot, "alogic-")
	if err != nil {
		h.log.ErrorContext(ctx, "create work dir", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	for name, text := range req.Files {
		p, err := compile.ResolveName(dir, name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = os.MkdirAll(filepath.Dir(p), 0o755)
		if err == nil {
			err = os.WriteFile(p, []byte(text), 0o644)
		}
		if err != nil {
			h.log.ErrorContext(ctx, "write input", "name", name, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	args := req.Args
	if args == nil {
		args = []string{}
	}
	out, runErr := h.runner.Run(ctx, dir, args)
	resp := compile.Response{Messages: messages(out), Files: map[string]string{}}

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
	case errors.As(runErr, &exitErr), errors.Is(runErr, ErrTimeout):
		// The compiler ran; its output is the diagnostics.
		resp.Messages = append(resp.Messages, compile.Message{Text: runErr.Error()})
	default:
		h.log.ErrorContext(ctx, "run compiler", "error", runErr)
		http.Error(w, fmt.Sprintf("run compiler: %v", runErr), http.StatusInternalServerError)
		return
	}

	files, err := collectOutputs(dir, req.Files)
	if err != nil {
		h.log.ErrorContext(ctx, "collect outputs", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	resp.Files = files

	h.log.InfoContext(ctx, "compiled",
		"args", args,
		"inputs", len(req.Files),
		"outputs", len(files),
		"messages", len(resp.Messages),
		"tail", TailBytes(out, 200),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Request-Id", id)
	_ = json.NewEncoder(w).Encode(resp)
}

func messages(out string) []compile.Message {
	out = strings.TrimRight(strings.ReplaceAll(out, "\r\n", "\n"), "\n")
	msgs := []compile.Message{}
	if out == "" {
		return msgs
	}
	for _, line := range strings.Split(out, "\n") {
		msgs = append(msgs, compile.Message{Text: line})
	}
	return msgs
}

// collectOutputs returns every text file under dir that was not an input.
func collectOutputs(dir string, inputs map[string]string) (map[string]string, error) {
	skip := make(map[string]bool, len(inputs))
	for name := range inputs {
		skip[path.Clean(name)] = true
	}
	files := map[string]string{}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if skip[rel] {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			return nil
		}
		files[rel] = string(data)
		return nil
	})
	return files, err
}
