package tools

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnknownTool is returned for names absent from the registry.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInstallFailed matches every *InstallError.
	ErrInstallFailed = errors.New("installation failed")
)

// Target is a registry entry: a tool and where its install script lives.
type Target struct {
	Name      string   `json:"name"`
	Script    string   `json:"script"`
	Binary    string   `json:"binary"`
	Languages []string `json:"languages,omitempty"`
}

// Script is an install script staged in the scratch directory.
type Script struct {
	Path string
	Mode os.FileMode
}

// InstallError reports a tool whose script could not be fetched or whose
// execution was reported as failed.
type InstallError struct {
	Tool   string
	Stage  string // "fetch" or "execute"
	Script string
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install %s: %s stage failed (%s)", e.Tool, e.Stage, e.Script)
}

// Is lets errors.Is(err, ErrInstallFailed) match.
func (e *InstallError) Is(target error) bool {
	return target == ErrInstallFailed
}
