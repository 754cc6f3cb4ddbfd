package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func TestDefaultRunner_Success(t *testing.T) {
	runner := &DefaultRunner{}

	stdout, stderr, code, err := runner.Run(testContext(), Cmd{Args: []string{"sh", "-c", "echo hello"}, Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", stdout)
	assert.Empty(t, stderr)
}

func TestDefaultRunner_ExitCode(t *testing.T) {
	runner := &DefaultRunner{}

	_, _, code, err := runner.Run(testContext(), Cmd{Args: []string{"sh", "-c", "exit 42"}}, nil)
	require.Error(t, err)
	assert.Equal(t, 42, code)
}

func TestDefaultRunner_WorkingDirectoryAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o600))

	runner := &DefaultRunner{}
	stdout, _, _, err := runner.Run(testContext(), Cmd{
		Args: []string{"sh", "-c", "ls; echo $RIID_TEST_VALUE"},
		Dir:  dir,
		Env:  []string{"RIID_TEST_VALUE=42"},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, stdout, "marker.txt")
	assert.Contains(t, stdout, "42")
}

func TestDefaultRunner_LiveOutputIsPrefixed(t *testing.T) {
	var live bytes.Buffer
	runner := &DefaultRunner{}

	stdout, _, _, err := runner.Run(testContext(), Cmd{
		Args:  []string{"sh", "-c", "echo one; printf two"},
		Label: "test",
	}, &live)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", stdout)
	assert.Equal(t, "[test] one\n[test] two\n", live.String())
}

func TestDefaultRunner_CancellationTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	runner := &DefaultRunner{Grace: time.Second}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, _, code, err := runner.Run(ctx, Cmd{Args: []string{"sleep", "30"}}, nil)
	require.Error(t, err)
	assert.NotEqual(t, 0, code)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestDefaultRunner_Empty(t *testing.T) {
	_, _, _, err := (&DefaultRunner{}).Run(testContext(), Cmd{}, nil)
	require.ErrorIs(t, err, rerrors.ErrEmptyCommand)
}

func TestExecutor_ExitError(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse([]string{"docker", "run"}, MockResponse{ExitCode: 3, Stderr: "tests failed\n"})

	exec := NewExecutor(mock, nil)
	res, err := exec.Run(testContext(), Cmd{Args: []string{"docker", "run", "--rm", "riid-test"}})
	require.Error(t, err)
	require.ErrorIs(t, err, rerrors.ErrCommandFailed)

	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, err.Error(), "exited with code 3")
}

func TestExecutor_StartFailureIsExitError(t *testing.T) {
	exec := NewExecutor(&DefaultRunner{}, nil)

	_, err := exec.Run(testContext(), Cmd{Args: []string{"riid-definitely-not-installed"}})
	require.ErrorIs(t, err, rerrors.ErrCommandFailed)
	code, ok := ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 1, code)
}

func TestExecutor_Success(t *testing.T) {
	mock := NewMockRunner()
	mock.SetDefault(MockResponse{Stdout: "ok\n"})

	var live bytes.Buffer
	exec := NewExecutor(mock, &live)
	res, err := exec.Run(testContext(), Cmd{Args: []string{"javac", "-version"}})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", res.Stdout)
	assert.Equal(t, "ok\n", live.String())
	assert.Equal(t, [][]string{{"javac", "-version"}}, argvs(mock.Calls()))
}

func TestMockRunner_LongestPrefixWins(t *testing.T) {
	mock := NewMockRunner()
	mock.SetResponse([]string{"docker"}, MockResponse{ExitCode: 1})
	mock.SetResponse([]string{"docker", "build"}, MockResponse{})

	_, _, code, _ := mock.Run(testContext(), Cmd{Args: []string{"docker", "build", "-t", "x", "."}}, nil)
	assert.Equal(t, 0, code)
	_, _, code, _ = mock.Run(testContext(), Cmd{Args: []string{"docker", "run"}}, nil)
	assert.Equal(t, 1, code)

	_, _, _, err := mock.Run(testContext(), Cmd{Args: []string{"java"}}, nil)
	require.ErrorIs(t, err, rerrors.ErrCommandNotConfigured)
	assert.Len(t, mock.CallsTo("docker"), 2)
}

func TestCmd_String(t *testing.T) {
	c := Cmd{Args: []string{"java", "-cp", "a b", "Main"}}
	assert.Equal(t, `java -cp "a b" Main`, c.String())
}

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	w := NewPrefixWriter(&out, "pmdMain")

	_, _ = w.Write([]byte("par"))
	_, _ = w.Write([]byte("tial\nnext"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "[pmdMain] partial\n[pmdMain] next\n", out.String())
}

func argvs(calls []Cmd) [][]string {
	out := make([][]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Args)
	}
	return out
}
