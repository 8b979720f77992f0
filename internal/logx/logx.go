// Package logx builds the two logging channels a manager writes to: an
// operational channel for the manager's own audit trail and a script channel
// that carries installer output verbatim. Each channel writes to its log file
// and to a console stream.
package logx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Options configures where the channels write.
type Options struct {
	// LogFile receives the operational channel. Empty disables the file.
	LogFile string
	// ScriptLogFile receives installer output. Empty disables the file.
	ScriptLogFile string
	// Console is shared by both channels; nil means os.Stderr.
	Console io.Writer
}

// Sinks owns the operational and script loggers and the files behind them.
type Sinks struct {
	Ops     *log.Logger
	Scripts *log.Logger

	closers []io.Closer
}

// New opens the configured log files (creating parent directories) and
// returns sinks at info level.
func New(opts Options) (*Sinks, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	s := &Sinks{}
	opsOut, err := s.open(opts.LogFile, console)
	if err != nil {
		s.Close()
		return nil, err
	}
	scriptOut, err := s.open(opts.ScriptLogFile, console)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Ops = newOpsLogger(opsOut)
	s.Scripts = newScriptLogger(scriptOut)
	return s, nil
}

// Console returns sinks that write only to w.
func Console(w io.Writer) *Sinks {
	if w == nil {
		w = os.Stderr
	}
	return &Sinks{Ops: newOpsLogger(w), Scripts: newScriptLogger(w)}
}

func (s *Sinks) open(path string, console io.Writer) (io.Writer, error) {
	if path == "" {
		return console, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	s.closers = append(s.closers, file)
	return io.MultiWriter(file, console), nil
}

// With returns sinks whose operational lines carry keyvals. The script
// channel is shared as is so installer output stays bare. The log files are
// still closed through s.
func (s *Sinks) With(keyvals ...any) *Sinks {
	return &Sinks{Ops: s.Ops.With(keyvals...), Scripts: s.Scripts}
}

// SetLevel applies level to both channels.
func (s *Sinks) SetLevel(level log.Level) {
	s.Ops.SetLevel(level)
	s.Scripts.SetLevel(level)
}

// Level reports the operational channel's level.
func (s *Sinks) Level() log.Level {
	return s.Ops.GetLevel()
}

// Close releases any open log files.
func (s *Sinks) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func newOpsLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		ReportCaller:    true,
		Prefix:          "root",
		Level:           log.InfoLevel,
	})
}

// newScriptLogger prints bare messages: no timestamp, prefix or level label.
func newScriptLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Level: log.InfoLevel})
	styles := log.DefaultStyles()
	styles.Levels = map[log.Level]lipgloss.Style{}
	l.SetStyles(styles)
	return l
}
