// Package manager ties config ingestion and tool installation together behind
// a single Manager that owns the live config, the debug toggle and the
// logging sinks.
package manager

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"lspmanager/internal/config"
	"lspmanager/internal/logx"
	"lspmanager/internal/paths"
	"lspmanager/internal/tools"
)

var (
	// ErrInvalidConfig is returned for a reference that is neither a mapping
	// nor text.
	ErrInvalidConfig = config.ErrInvalidConfig
	// ErrUnknownConfigType is returned when no source and format combination
	// decodes the text.
	ErrUnknownConfigType = errors.New("unknown config type")
	// ErrUnknownTool is returned for names missing from the registry.
	ErrUnknownTool = tools.ErrUnknownTool
	// ErrInstallation matches any *InstallError.
	ErrInstallation = tools.ErrInstallFailed
)

// InstallError reports a failed fetch or execution of an install script.
type InstallError = tools.InstallError

// InstallOptions is accepted by Install; see tools.InstallOptions.
type InstallOptions = tools.InstallOptions

// Options configures a Manager. The zero value is usable.
type Options struct {
	// InitialConfig is loaded with UseNewConfig; nil loads an empty mapping.
	InitialConfig any
	Debug         bool

	// Sinks defaults to console-only logging on stderr.
	Sinks *logx.Sinks
	// Layout defaults to paths.Default().
	Layout *paths.Layout
	// HTTPClient is used for config URLs and install scripts.
	HTTPClient *http.Client
	// StrictInstall makes a non-zero script exit fail the install.
	StrictInstall bool

	Controller  Controller
	StateLoader StateLoader
}

// Manager is not safe for concurrent use.
type Manager struct {
	id     string
	layout paths.Layout
	sinks  *logx.Sinks
	debug  bool

	store     *config.Store
	resolver  *config.Resolver
	installer *tools.Installer

	controller  Controller
	stateLoader StateLoader
	toolState   map[string]any
}

// New builds a manager: scratch directory, sinks, initial config, then the
// state-restore hook.
func New(ctx context.Context, opts Options) (*Manager, error) {
	layout, err := resolveLayout(opts.Layout)
	if err != nil {
		return nil, err
	}

	sinks := opts.Sinks
	if sinks == nil {
		sinks = logx.Console(os.Stderr)
	}
	id := uuid.NewString()
	sinks = sinks.With("manager", id)

	m := &Manager{
		id:          id,
		layout:      layout,
		sinks:       sinks,
		store:       config.NewStore(),
		resolver:    config.NewResolver(opts.HTTPClient, sinks.Ops),
		controller:  opts.Controller,
		stateLoader: opts.StateLoader,
		toolState:   map[string]any{},
	}
	if m.controller == nil {
		m.controller = nopController{}
	}
	if m.stateLoader == nil {
		m.stateLoader = nopStateLoader{}
	}
	m.installer = &tools.Installer{
		Fetcher: &tools.Fetcher{Dir: layout.ScratchDir, Client: opts.HTTPClient, Logger: sinks.Ops},
		Executor: &tools.Executor{
			Strict:  opts.StrictInstall,
			Logger:  sinks.Ops,
			Scripts: sinks.Scripts,
		},
		Logger: sinks.Ops,
	}

	if opts.Debug {
		m.ToggleDebug()
	}
	if err := layout.EnsureScratchDir(); err != nil {
		return nil, err
	}

	initial := opts.InitialConfig
	if initial == nil {
		initial = config.Tree{}
	}
	if err := m.UseNewConfig(ctx, initial); err != nil {
		return nil, fmt.Errorf("load initial config: %w", err)
	}

	if err := m.loadState(ctx); err != nil {
		return nil, err
	}
	m.logger().Debug(m.String())
	return m, nil
}

func resolveLayout(l *paths.Layout) (paths.Layout, error) {
	if l != nil {
		return *l, nil
	}
	return paths.Default()
}

func (m *Manager) loadState(ctx context.Context) error {
	state, err := m.stateLoader.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load tool state: %w", err)
	}
	if state != nil {
		m.toolState = state
	}
	return nil
}

func (m *Manager) String() string {
	format := config.Format("")
	var tree config.Tree
	if rec, ok := m.store.Current(); ok {
		format, tree = rec.Format, rec.Tree
	}
	return fmt.Sprintf("<Manager id=%s config=%s:%v debug=%t>", m.id, format, tree, m.debug)
}

func (m *Manager) logger() *log.Logger {
	return m.sinks.Ops
}

// UseNewConfig replaces the live config with the one ref resolves to. A
// mapping is loaded directly; text is tried as inline config, a file path and
// a URL, in that order.
func (m *Manager) UseNewConfig(ctx context.Context, ref any) error {
	if !isEmptyRef(ref) {
		m.logger().Info("Loading new config")
		m.logger().Debug("config reference", "ref", ref)
	}

	rec, err := m.Resolve(ctx, ref)
	if err != nil {
		return err
	}

	m.store.Load(rec)
	m.logger().Debug("config loaded", "format", rec.Format)
	return nil
}

// Resolve decodes ref as UseNewConfig would, without making it the live
// config.
func (m *Manager) Resolve(ctx context.Context, ref any) (config.Record, error) {
	rec, err := m.resolver.Resolve(ctx, ref)
	if errors.Is(err, config.ErrUnrecognizedSource) {
		return config.Record{}, fmt.Errorf("%w: %w", ErrUnknownConfigType, err)
	}
	return rec, err
}

func isEmptyRef(ref any) bool {
	switch v := ref.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case config.Tree:
		return len(v) == 0
	}
	return false
}

// DumpConfig renders the live config in the format it was loaded from.
func (m *Manager) DumpConfig() (string, error) {
	return m.store.Dump()
}

// Config returns the live config record.
func (m *Manager) Config() config.Record {
	rec, _ := m.store.Current()
	return rec
}

// Install fetches and runs the registered install script for name.
func (m *Manager) Install(ctx context.Context, name string, opts InstallOptions) error {
	return m.installer.Install(ctx, name, opts)
}

// Start asks the controller to start name.
func (m *Manager) Start(ctx context.Context, name string) (bool, error) {
	if err := m.known(name); err != nil {
		return false, err
	}
	return m.controller.Start(ctx, name), nil
}

// Stop asks the controller to stop name.
func (m *Manager) Stop(ctx context.Context, name string) (bool, error) {
	if err := m.known(name); err != nil {
		return false, err
	}
	return m.controller.Stop(ctx, name), nil
}

// Restart stops then starts name. Start is skipped when Stop fails.
func (m *Manager) Restart(ctx context.Context, name string) (bool, error) {
	stopped, err := m.Stop(ctx, name)
	if err != nil || !stopped {
		return false, err
	}
	return m.Start(ctx, name)
}

// Talk sends data to a running server and returns its reply.
func (m *Manager) Talk(ctx context.Context, name, data string) (string, error) {
	if err := m.known(name); err != nil {
		return "", err
	}
	return m.controller.Talk(ctx, name, data), nil
}

// Configure passes per-tool options to the controller.
func (m *Manager) Configure(ctx context.Context, name string, options map[string]any) (bool, error) {
	if err := m.known(name); err != nil {
		return false, err
	}
	return m.controller.Configure(ctx, name, options), nil
}

// Uninstall removes name.
func (m *Manager) Uninstall(ctx context.Context, name string) (bool, error) {
	if err := m.known(name); err != nil {
		return false, err
	}
	return m.controller.Uninstall(ctx, name), nil
}

func (m *Manager) known(name string) error {
	_, err := tools.Lookup(name)
	return err
}

// ToggleDebug flips debug mode, moving both logging channels between info and
// debug level.
func (m *Manager) ToggleDebug() {
	level := log.DebugLevel
	if m.debug {
		level = log.InfoLevel
	}
	m.debug = !m.debug
	m.sinks.SetLevel(level)
	m.logger().Info("Set logging level", "level", level)
}

// Debug reports whether debug mode is on.
func (m *Manager) Debug() bool {
	return m.debug
}

// ScratchDir is where install scripts are staged.
func (m *Manager) ScratchDir() string {
	return m.layout.ScratchDir
}

// ToolState returns the state restored at construction.
func (m *Manager) ToolState() map[string]any {
	return m.toolState
}
