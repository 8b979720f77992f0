package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
)

// RunOptions routes a process's output streams. Nil writers discard.
type RunOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult is what is known about a process after it exits.
type RunResult struct {
	ExitCode int
}

// Runner starts a process and waits for it.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner runs processes with os/exec. A non-zero exit comes back as an
// *exec.ExitError alongside the exit code.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	err := cmd.Run()
	var res RunResult
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	return res, err
}

var _ Runner = CmdRunner{}

// shellPath interprets scripts that have no #! line.
var shellPath = "/bin/sh"

// Executor runs staged install scripts.
//
// By default a script that was spawned counts as a success whatever its exit
// status; the status is only logged. Strict makes a non-zero exit a failure.
type Executor struct {
	Runner  Runner
	Strict  bool
	Logger  *log.Logger // operational channel
	Scripts *log.Logger // script output channel
}

// Execute runs script with no arguments and reports whether the install
// counts as successful. A script the kernel refuses to exec is handed to the
// shell instead.
func (e *Executor) Execute(ctx context.Context, script Script) bool {
	logger := orDefault(e.Logger)
	if script.Path == "" {
		logger.Error("no install script to run")
		return false
	}

	out := newLineLogger(orDefault(e.Scripts))
	runner := e.Runner
	if runner == nil {
		runner = CmdRunner{}
	}

	opts := RunOptions{Stdout: out, Stderr: out}
	res, err := runner.Run(ctx, script.Path, nil, opts)
	if errors.Is(err, syscall.ENOEXEC) {
		logger.Debug("install script has no interpreter line, using the shell", "path", script.Path, "shell", shellPath)
		res, err = runner.Run(ctx, shellPath, []string{script.Path}, opts)
	}
	out.Flush()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		logger.Info("install script finished", "path", script.Path)
		return true
	case errors.As(err, &exitErr):
		logger.Warn("install script exited non-zero", "path", script.Path, "code", res.ExitCode, "strict", e.Strict)
		return !e.Strict
	default:
		logger.Error("start install script", "path", script.Path, "err", err)
		return false
	}
}

func orDefault(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}

// lineLogger forwards complete lines written to it as log messages.
type lineLogger struct {
	mu     sync.Mutex
	logger *log.Logger
	buf    []byte
}

func newLineLogger(l *log.Logger) *lineLogger {
	return &lineLogger{logger: l}
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		w.emit(string(w.buf[:idx]))
		w.buf = w.buf[idx+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that had no newline.
func (w *lineLogger) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

func (w *lineLogger) emit(line string) {
	w.logger.Info(strings.TrimRight(line, "\r"))
}
