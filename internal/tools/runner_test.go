package tools

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"

	"github.com/charmbracelet/log"
)

func writeScript(t *testing.T, body string) Script {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "install")
	if err := os.WriteFile(path, []byte(body), 0o774); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return Script{Path: path, Mode: 0o774}
}

func TestExecuteDefaultIgnoresExitStatus(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\nexit 3\n")
	e := &Executor{Logger: log.New(io.Discard), Scripts: log.New(io.Discard)}

	// Known weak contract: a spawned script is a success even when it fails.
	if !e.Execute(context.Background(), script) {
		t.Fatal("default executor should report success once the script spawned")
	}
}

func TestExecuteStrictChecksExitStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"zero exit", "#!/bin/sh\nexit 0\n", true},
		{"non-zero exit", "#!/bin/sh\nexit 3\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := writeScript(t, tt.body)
			e := &Executor{Strict: true, Logger: log.New(io.Discard), Scripts: log.New(io.Discard)}
			if got := e.Execute(context.Background(), script); got != tt.want {
				t.Fatalf("Execute = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecuteSpawnFailure(t *testing.T) {
	e := &Executor{Logger: log.New(io.Discard), Scripts: log.New(io.Discard)}

	if e.Execute(context.Background(), Script{}) {
		t.Fatal("absent script must not succeed")
	}
	missing := Script{Path: filepath.Join(t.TempDir(), "nope")}
	if e.Execute(context.Background(), missing) {
		t.Fatal("script that cannot be spawned must not succeed")
	}
}

func TestExecuteLogsScriptOutput(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\necho fetching gopls\necho oops >&2\nprintf 'no newline'\n")

	var out bytes.Buffer
	e := &Executor{Logger: log.New(io.Discard), Scripts: log.New(&out)}
	if !e.Execute(context.Background(), script) {
		t.Fatal("expected success")
	}

	for _, want := range []string{"fetching gopls", "oops", "no newline"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("script log missing %q: %q", want, out.String())
		}
	}
}

func TestExecuteScriptWithoutInterpreterLine(t *testing.T) {
	script := writeScript(t, "echo hi\n")

	var out bytes.Buffer
	e := &Executor{Strict: true, Logger: log.New(io.Discard), Scripts: log.New(&out)}
	if !e.Execute(context.Background(), script) {
		t.Fatal("script without #! line should run through the shell")
	}
	if !strings.Contains(out.String(), "hi") {
		t.Fatalf("script log missing output: %q", out.String())
	}
}

type stubRunner struct {
	calls []string
	err   error
}

func (s *stubRunner) Run(_ context.Context, command string, args []string, _ RunOptions) (RunResult, error) {
	s.calls = append(s.calls, command)
	if len(args) != 0 {
		return RunResult{}, io.ErrUnexpectedEOF
	}
	return RunResult{}, s.err
}

func TestExecuteRunsScriptWithoutArguments(t *testing.T) {
	runner := &stubRunner{}
	e := &Executor{Runner: runner, Logger: log.New(io.Discard)}

	if !e.Execute(context.Background(), Script{Path: "/tmp/lsptmp/abcdefghij"}) {
		t.Fatal("expected success")
	}
	if len(runner.calls) != 1 || runner.calls[0] != "/tmp/lsptmp/abcdefghij" {
		t.Fatalf("calls = %v", runner.calls)
	}
}

// execFormatRunner refuses to exec anything but the shell.
type execFormatRunner struct {
	calls [][]string
}

func (r *execFormatRunner) Run(_ context.Context, command string, args []string, _ RunOptions) (RunResult, error) {
	r.calls = append(r.calls, append([]string{command}, args...))
	if command != shellPath {
		return RunResult{}, &os.PathError{Op: "fork/exec", Path: command, Err: syscall.ENOEXEC}
	}
	return RunResult{}, nil
}

func TestExecuteFallsBackToShell(t *testing.T) {
	runner := &execFormatRunner{}
	e := &Executor{Runner: runner, Logger: log.New(io.Discard)}

	if !e.Execute(context.Background(), Script{Path: "/tmp/lsptmp/abcdefghij"}) {
		t.Fatal("expected success")
	}
	want := [][]string{{"/tmp/lsptmp/abcdefghij"}, {shellPath, "/tmp/lsptmp/abcdefghij"}}
	if len(runner.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", runner.calls, want)
	}
	for i := range want {
		if strings.Join(runner.calls[i], " ") != strings.Join(want[i], " ") {
			t.Fatalf("calls = %v, want %v", runner.calls, want)
		}
	}
}
