// Package signal cancels a build when the user interrupts it.
//
// The first SIGINT or SIGTERM cancels the build context: pending tasks are
// marked canceled and running subprocesses are terminated. A second signal
// closes the Forced channel so the caller can stop waiting for them.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler turns interrupt signals into context cancellation.
type Handler struct {
	ctx         context.Context //nolint:containedctx // intentional: handler manages context lifecycle
	cancel      context.CancelCauseFunc
	interrupted chan struct{}
	forced      chan struct{}
	done        chan struct{}
	stopOnce    sync.Once
	sigChan     chan os.Signal

	mu       sync.Mutex
	received []os.Signal
}

// NewHandler creates a handler listening for SIGINT and SIGTERM.
//
// Usage:
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	report, err := project.Run(h.Context(), plan, workers, progress)
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancelCause(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		forced:      make(chan struct{}),
		done:        make(chan struct{}),
		// Buffered so signal.Notify never drops a signal while handling one.
		sigChan: make(chan os.Signal, 2),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the build context. Its cause names the signal once one
// has been received.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when the first signal is received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Forced closes when a second signal is received.
func (h *Handler) Forced() <-chan struct{} {
	return h.forced
}

// Signal returns the first signal received, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.received) == 0 {
		return nil
	}
	return h.received[0]
}

// Stop stops listening and releases the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel(context.Canceled)
	})
}

func (h *Handler) handleSignal(sig os.Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.received = append(h.received, sig)
	switch len(h.received) {
	case 1:
		h.cancel(fmt.Errorf("received %s", sig))
		close(h.interrupted)
	case 2:
		close(h.forced)
	}
}

// listen runs until Stop. It keeps watching after the context is canceled
// so that a second signal can still be observed.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
