// Package flock guards a build directory with an exclusive, non-blocking
// file lock so two invocations never write the same outputs at once.
//
// Usage:
//
//	lock, err := flock.Acquire(filepath.Join(buildDir, ".riid-build.lock"))
//	if err != nil {
//	    // errors.Is(err, errors.ErrBuildLocked) when another build holds it
//	}
//	defer lock.Release()
package flock
