package tools

import (
	"context"

	"github.com/charmbracelet/log"
)

// InstallOptions configures install behaviour.
type InstallOptions struct {
	// Command is accepted for a future override of the registry script. It
	// is recorded in the log and otherwise has no effect.
	Command string
}

// Installer resolves a tool in the registry, stages its script and runs it.
type Installer struct {
	Fetcher  *Fetcher
	Executor *Executor
	Logger   *log.Logger
}

// Install returns ErrUnknownTool for unregistered names before touching the
// network, and an *InstallError when the script cannot be fetched or its
// execution is reported as failed.
func (i *Installer) Install(ctx context.Context, name string, opts InstallOptions) error {
	logger := orDefault(i.Logger)

	target, err := Lookup(name)
	if err != nil {
		return err
	}
	if opts.Command != "" {
		// TODO: decide whether Command replaces the registry script once the override semantics are settled.
		logger.Debug("install command override accepted but not applied", "tool", name, "command", opts.Command)
	}

	script, ok := i.Fetcher.Fetch(ctx, target.Script)
	if !ok {
		return &InstallError{Tool: target.Name, Stage: "fetch", Script: target.Script}
	}
	if !i.Executor.Execute(ctx, script) {
		return &InstallError{Tool: target.Name, Stage: "execute", Script: script.Path}
	}

	logger.Info("installed tool", "tool", target.Name)
	return nil
}
