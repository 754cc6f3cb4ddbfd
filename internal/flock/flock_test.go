//go:build unix

package flock

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

func TestExclusive(t *testing.T) {
	lockFile := filepath.Join(t.TempDir(), "test.lock")

	f1, err := os.OpenFile(lockFile, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- test code using safe temp dir
	require.NoError(t, err)
	defer func() { _ = f1.Close() }()

	require.NoError(t, Exclusive(f1.Fd()))

	f2, err := os.OpenFile(lockFile, os.O_RDWR, 0o600) // #nosec G304 -- test code using safe temp dir
	require.NoError(t, err)
	defer func() { _ = f2.Close() }()

	require.Error(t, Exclusive(f2.Fd()), "second lock must fail without blocking")

	require.NoError(t, Unlock(f1.Fd()))
	require.NoError(t, Exclusive(f2.Fd()), "lock can be reacquired after unlock")
	require.NoError(t, Unlock(f2.Fd()))
}

func TestAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", ".riid-build.lock")

	lock, err := Acquire(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	_, err = Acquire(path)
	require.ErrorIs(t, err, rerrors.ErrBuildLocked)
	assert.Contains(t, err.Error(), "held by pid")

	require.NoError(t, lock.Release())
	require.NoError(t, lock.Release(), "release is idempotent")

	again, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
