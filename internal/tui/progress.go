package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/UsatovPavel/RIID/internal/graph"
)

// Progress prints one line per task as the executor reports it. It
// implements graph.Observer and is safe for concurrent use.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	json    bool
	verbose bool
	styles  *OutputStyles
}

// NewProgress creates a Progress writing to w in the given format. In
// verbose mode task starts are printed too.
func NewProgress(w io.Writer, format string, verbose bool) *Progress {
	if format != FormatJSON {
		CheckNoColor()
	}
	return &Progress{
		w:       w,
		json:    format == FormatJSON,
		verbose: verbose,
		styles:  NewOutputStyles(),
	}
}

type taskEvent struct {
	Type       string `json:"type"`
	Task       string `json:"task"`
	State      string `json:"state"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Error      string `json:"error,omitempty"`
}

// TaskStarted implements graph.Observer.
func (p *Progress) TaskStarted(name string) {
	if !p.verbose {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		p.encode(taskEvent{Type: "task", Task: name, State: string(graph.StateRunning)})
		return
	}
	_, _ = fmt.Fprintln(p.w, p.styles.Dim.Render("> Task :"+name))
}

// TaskFinished implements graph.Observer.
func (p *Progress) TaskFinished(r graph.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.json {
		ev := taskEvent{
			Type:       "task",
			Task:       r.Name,
			State:      string(r.State),
			DurationMS: r.Duration.Milliseconds(),
		}
		if r.Err != nil && r.State == graph.StateFailed {
			ev.Error = r.Err.Error()
		}
		p.encode(ev)
		return
	}

	line := fmt.Sprintf("%s :%s", RenderState(r.State), r.Name)
	if r.Duration > 0 {
		line += StyleDim.Render(" (" + FormatDuration(r.Duration) + ")")
	}
	_, _ = fmt.Fprintln(p.w, line)
	if r.State == graph.StateFailed && r.Err != nil {
		_, _ = fmt.Fprintln(p.w, p.styles.Dim.Render("    "+r.Err.Error()))
	}
}

type buildEvent struct {
	Type       string   `json:"type"`
	Succeeded  bool     `json:"succeeded"`
	DurationMS int64    `json:"duration_ms"`
	Failed     []string `json:"failed,omitempty"`
}

// Finish prints the closing BUILD SUCCESSFUL or BUILD FAILED line.
func (p *Progress) Finish(rep *graph.Report, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ok := rep != nil && rep.Succeeded()
	var failed []string
	if rep != nil {
		for _, f := range rep.Failures() {
			failed = append(failed, f.Name)
		}
	}

	if p.json {
		p.encode(buildEvent{Type: "build", Succeeded: ok, DurationMS: elapsed.Milliseconds(), Failed: failed})
		return
	}

	style := p.styles.Success
	text := "BUILD SUCCESSFUL"
	if !ok {
		style = p.styles.Error
		text = "BUILD FAILED"
	}
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, style.Render(text)+" in "+FormatDuration(elapsed))
	if len(failed) > 0 {
		_, _ = fmt.Fprintln(p.w, lipgloss.NewStyle().Foreground(ColorError).Render(fmt.Sprintf("%d failed: %v", len(failed), failed)))
	}
}

func (p *Progress) encode(v any) {
	//nolint:errchkjson // Observer methods have no error return
	_ = json.NewEncoder(p.w).Encode(v)
}
