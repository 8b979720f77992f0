package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lspmanager/internal/logx"
	"lspmanager/internal/manager"
	"lspmanager/internal/paths"
)

var (
	configRef     string
	debugMode     bool
	strictInstall bool
	scratchDir    string
	logFile       string
	scriptLogFile string
	outputJSON    bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lspmanager",
		Short:         "Install and configure language servers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configRef, "config", "", "Config as inline text, a file path or a URL")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&strictInstall, "strict", false, "Fail installs whose script exits non-zero")
	flags.StringVar(&scratchDir, "scratch-dir", "", "Directory for downloaded install scripts")
	flags.StringVar(&logFile, "log-file", "", "Operational log file")
	flags.StringVar(&scriptLogFile, "script-log-file", "", "Install script output log file")
	flags.BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")

	cmd.AddCommand(newInstallCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newConfigCmd())
	for _, c := range newLifecycleCmds() {
		cmd.AddCommand(c)
	}

	return cmd
}

// openManager builds a manager from the persistent flags. The returned
// closer releases the log files.
func openManager(cmd *cobra.Command) (*manager.Manager, func(), error) {
	layout, err := paths.Default()
	if err != nil {
		return nil, nil, err
	}
	if scratchDir != "" {
		layout.ScratchDir = scratchDir
	}
	if logFile != "" {
		layout.LogFile = logFile
	}
	if scriptLogFile != "" {
		layout.ScriptLogFile = scriptLogFile
	}

	sinks, err := logx.New(logx.Options{
		LogFile:       layout.LogFile,
		ScriptLogFile: layout.ScriptLogFile,
		Console:       cmd.ErrOrStderr(),
	})
	if err != nil {
		sinks = logx.Console(cmd.ErrOrStderr())
		sinks.Ops.Warn("file logging disabled", "err", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var initial any
	if configRef != "" {
		initial = configRef
	}

	m, err := manager.New(ctx, manager.Options{
		InitialConfig: initial,
		Debug:         debugMode,
		Sinks:         sinks,
		Layout:        &layout,
		StrictInstall: strictInstall,
	})
	if err != nil {
		sinks.Close()
		return nil, nil, err
	}
	return m, func() { _ = sinks.Close() }, nil
}
