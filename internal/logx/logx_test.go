package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewWritesFileAndConsole(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	sinks, err := New(Options{
		LogFile:       filepath.Join(dir, "nested", "ops.log"),
		ScriptLogFile: filepath.Join(dir, "scripts.log"),
		Console:       &console,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sinks.Ops.Info("manager ready")
	sinks.Scripts.Info("installing gopls")
	if err := sinks.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ops, err := os.ReadFile(filepath.Join(dir, "nested", "ops.log"))
	if err != nil {
		t.Fatalf("read ops log: %v", err)
	}
	if !strings.Contains(string(ops), "manager ready") {
		t.Fatalf("ops log missing message: %q", ops)
	}
	if strings.Contains(string(ops), "installing gopls") {
		t.Fatalf("ops log should not carry script output: %q", ops)
	}

	scripts, err := os.ReadFile(filepath.Join(dir, "scripts.log"))
	if err != nil {
		t.Fatalf("read script log: %v", err)
	}
	if !strings.Contains(string(scripts), "installing gopls") {
		t.Fatalf("script log missing message: %q", scripts)
	}

	for _, want := range []string{"manager ready", "installing gopls"} {
		if !strings.Contains(console.String(), want) {
			t.Fatalf("console missing %q: %q", want, console.String())
		}
	}
}

func TestNewUnwritableLogFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{LogFile: filepath.Join(blocker, "ops.log")})
	if err == nil {
		t.Fatal("expected error when log directory is a file")
	}
}

func TestSetLevelAppliesToBothChannels(t *testing.T) {
	var buf bytes.Buffer
	sinks := Console(&buf)

	sinks.Ops.Debug("hidden ops")
	sinks.Scripts.Debug("hidden script")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output at info level, got %q", buf.String())
	}

	sinks.SetLevel(log.DebugLevel)
	if sinks.Level() != log.DebugLevel {
		t.Fatalf("Level = %v, want debug", sinks.Level())
	}
	sinks.Ops.Debug("visible ops")
	sinks.Scripts.Debug("visible script")

	for _, want := range []string{"visible ops", "visible script"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in %q", want, buf.String())
		}
	}
}

func TestWithTagsOperationalChannelOnly(t *testing.T) {
	var buf bytes.Buffer
	tagged := Console(&buf).With("manager", "b7c1")

	tagged.Ops.Info("loading config")
	tagged.Scripts.Info("downloading gopls")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "manager=b7c1") {
		t.Fatalf("ops line not tagged: %q", lines[0])
	}
	if strings.Contains(lines[1], "manager=") {
		t.Fatalf("script line should stay bare: %q", lines[1])
	}
}
