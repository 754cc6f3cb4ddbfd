package command

import (
	"context"
	"io"
	"strings"
	"sync"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

// MockResponse is the canned outcome of a mocked command.
type MockResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error

	// Hook runs before the response is returned, e.g. to create output files.
	Hook func(cmd Cmd)
}

// MockRunner implements Runner for tests. Responses are matched by the
// longest configured argv prefix; every call is recorded.
type MockRunner struct {
	mu        sync.Mutex
	responses map[string]MockResponse
	fallback  *MockResponse
	calls     []Cmd
}

// NewMockRunner creates a mock runner that fails unconfigured commands.
func NewMockRunner() *MockRunner {
	return &MockRunner{responses: make(map[string]MockResponse)}
}

// SetResponse configures the response for commands whose argv starts with prefix.
func (m *MockRunner) SetResponse(prefix []string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[strings.Join(prefix, "\x00")] = resp
}

// SetDefault configures the response for unmatched commands.
func (m *MockRunner) SetDefault(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &resp
}

// Calls returns every command run so far, in call order.
func (m *MockRunner) Calls() []Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Cmd(nil), m.calls...)
}

// CallsTo returns the recorded commands whose executable is exe.
func (m *MockRunner) CallsTo(exe string) []Cmd {
	var out []Cmd
	for _, c := range m.Calls() {
		if len(c.Args) > 0 && c.Args[0] == exe {
			out = append(out, c)
		}
	}
	return out
}

// Run implements Runner.
func (m *MockRunner) Run(ctx context.Context, cmd Cmd, live io.Writer) (stdout, stderr string, exitCode int, err error) {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	resp, ok := m.match(cmd.Args)
	m.mu.Unlock()

	if !ok {
		return "", "command not configured", 1, rerrors.ErrCommandNotConfigured
	}
	if ctx.Err() != nil {
		return "", "context canceled", 1, ctx.Err()
	}
	if resp.Hook != nil {
		resp.Hook(cmd)
	}
	if live != nil && resp.Stdout != "" {
		_, _ = io.WriteString(live, resp.Stdout)
	}
	return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Err
}

func (m *MockRunner) match(args []string) (MockResponse, bool) {
	for n := len(args); n > 0; n-- {
		if resp, ok := m.responses[strings.Join(args[:n], "\x00")]; ok {
			return resp, true
		}
	}
	if m.fallback != nil {
		return *m.fallback, true
	}
	return MockResponse{}, false
}

// Ensure MockRunner implements Runner.
var _ Runner = (*MockRunner)(nil)
