package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

type Options struct {
	Level string
	// Writer receives text logs; nil with an empty File discards them.
	Writer io.Writer
	// File, when set, is opened in append mode and used instead of Writer.
	File string
	// Journal adds a systemd journal handler when running as a service.
	Journal bool
}

// Handler stamps the compile request id carried by ctx onto each record.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if id := compile.RequestID(ctx); id != "" {
		record.Add("request_id", id)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{Handler: h.Handler.WithGroup(name)}
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		s = "warn"
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// New builds the logger. The returned closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level := new(slog.LevelVar)
	level.Set(lvl)

	var closer io.Closer = nopCloser{}
	writer := opts.Writer
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writer, closer = f, f
	}

	var handlers []slog.Handler

	isSystemdService := false
	if opts.Journal {
		if cgroupPath, err := getCgroupPath(); err == nil {
			isSystemdService = strings.HasSuffix(path.Dir(cgroupPath), ".service")
		}
	}

	var textHandler slog.Handler
	if writer != nil && !isSystemdService {
		textHandler = slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
		handlers = append(handlers, textHandler)
	}

	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if textHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("error", err)
				_ = textHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	if len(handlers) == 0 {
		handlers = append(handlers, slog.DiscardHandler)
	}

	return slog.New(&Handler{Handler: slogmulti.Fanout(handlers...)}), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func getCgroupPath() (string, error) {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) >= 3 {
		return parts[2], nil
	}
	return "", nil
}
