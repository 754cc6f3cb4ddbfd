package command

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter writes complete lines to an underlying writer, each prefixed
// with "[label] ". Writes from concurrent tasks never interleave within a line.
type PrefixWriter struct {
	mu     sync.Mutex
	out    io.Writer
	prefix []byte
	buf    bytes.Buffer
}

// NewPrefixWriter returns a PrefixWriter. An empty label writes lines unchanged.
func NewPrefixWriter(out io.Writer, label string) *PrefixWriter {
	w := &PrefixWriter{out: out}
	if label != "" {
		w.prefix = []byte("[" + label + "] ")
	}
	return w
}

// Write buffers p and emits every complete line.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			rest := append([]byte(nil), line...)
			w.buf.Reset()
			w.buf.Write(rest)
			break
		}
		if err := w.emit(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush writes any trailing partial line followed by a newline.
func (w *PrefixWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() == 0 {
		return nil
	}
	line := append(w.buf.Bytes(), '\n')
	w.buf.Reset()
	return w.emit(line)
}

func (w *PrefixWriter) emit(line []byte) error {
	out := make([]byte, 0, len(w.prefix)+len(line))
	out = append(out, w.prefix...)
	out = append(out, line...)
	_, err := w.out.Write(out)
	return err
}

// lockedWriter serializes writes from concurrent tasks sharing one output.
type lockedWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}
