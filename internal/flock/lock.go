package flock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// Lock is a held build lock.
type Lock struct {
	file *os.File
}

// Acquire creates path if needed and locks it. A lock held elsewhere returns
// ErrBuildLocked. The holder's pid is written into the file for diagnostics.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrapf(err, "create %s", filepath.Dir(path))
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path is constructed internally
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	if err := Exclusive(f.Fd()); err != nil {
		holder, _ := os.ReadFile(path) // #nosec G304 -- same path as above
		_ = f.Close()
		if len(holder) > 0 {
			return nil, fmt.Errorf("%w: held by pid %s", errors.ErrBuildLocked, string(holder))
		}
		return nil, errors.ErrBuildLocked
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	if err := Unlock(f.Fd()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
