package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// ErrTimeout marks a compiler run that hit its deadline.
var ErrTimeout = errors.New("compiler timed out")

// Runner runs the compiler inside dir with args and returns what it printed.
// A non-zero exit is reported as an *exec.ExitError alongside the output.
type Runner interface {
	Run(ctx context.Context, dir string, args []string) (out string, err error)
}

// ExecRunner runs a local compiler binary.
type ExecRunner struct {
	Command string
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, dir string, args []string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "CI=1")
	// Children that outlive a killed compiler must not hold the pipes open.
	cmd.WaitDelay = time.Second

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := buf.String()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) && err != nil {
		err = fmt.Errorf("%w after %s: %v", ErrTimeout, r.Timeout, err)
	}
	return out, err
}

// TailBytes returns the last n bytes of s, for logging long output.
func TailBytes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
