package src

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

const (
	lockName     = ".playground.lock"
	lockOwner    = "owner.json"
	lockStep     = 120 * time.Millisecond
	lockStale    = 10 * time.Minute
	lockPatience = 2 * time.Second
)

// LockOwner describes the writer holding an output directory.
type LockOwner struct {
	PID      int       `json:"pid"`
	Run      string    `json:"run"`
	Acquired time.Time `json:"acquired"`
}

func (o LockOwner) String() string {
	if o.Run == "" {
		return "unknown writer"
	}
	return fmt.Sprintf("pid %d run %s since %s", o.PID, o.Run, o.Acquired.Format(time.RFC3339))
}

// ErrLockLost is returned on release when another writer broke our lock.
var ErrLockLost = errors.New("output lock taken over")

type lockWaitHook func(wait time.Duration, holder LockOwner)

func readLockOwner(path string) (LockOwner, bool) {
	var o LockOwner
	data, err := os.ReadFile(filepath.Join(path, lockOwner))
	if err != nil || json.Unmarshal(data, &o) != nil || o.Run == "" {
		return LockOwner{}, false
	}
	return o, true
}

// lockAge prefers the recorded acquire time and falls back to the
// directory's mtime when the owner file is missing or garbled.
func lockAge(path string) (time.Duration, bool) {
	if o, ok := readLockOwner(path); ok {
		return time.Since(o.Acquired), true
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

// acquireOutputLock takes the directory lock guarding writes into outDir.
// A lock older than lockStale is broken once we have waited lockPatience.
// The run is named by the request id on ctx, or a fresh uuid.
func acquireOutputLock(ctx context.Context, outDir string, hook lockWaitHook) (func() error, error) {
	path := filepath.Join(outDir, lockName)
	me := LockOwner{PID: os.Getpid(), Run: compile.RequestID(ctx)}
	if me.Run == "" {
		me.Run = uuid.NewString()
	}

	waited := time.Duration(0)
	for {
		err := os.Mkdir(path, 0o755)
		if err == nil {
			me.Acquired = time.Now()
			meta, _ := json.Marshal(me)
			if err := os.WriteFile(filepath.Join(path, lockOwner), meta, 0o644); err != nil {
				_ = os.RemoveAll(path)
				return nil, fmt.Errorf("lock %s: %w", outDir, err)
			}
			return func() error { return releaseOutputLock(path, me) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("lock %s: %w", outDir, err)
		}

		holder, _ := readLockOwner(path)
		if hook != nil {
			hook(waited, holder)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s held by %s: %w", outDir, holder, ctx.Err())
		case <-time.After(lockStep):
			if waited < lockPatience {
				waited += lockStep
			}
		}

		if waited >= lockPatience {
			if age, ok := lockAge(path); ok && age > lockStale {
				_ = os.RemoveAll(path)
			}
		}
	}
}

// releaseOutputLock removes the lock only while me still owns it.
func releaseOutputLock(path string, me LockOwner) error {
	holder, ok := readLockOwner(path)
	if !ok {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: lock removed while run %s held it", ErrLockLost, me.Run)
		}
		return os.RemoveAll(path)
	}
	if holder.Run != me.Run || holder.PID != me.PID {
		return fmt.Errorf("%w by %s", ErrLockLost, holder)
	}
	return os.RemoveAll(path)
}
