package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultScratchDir    = "/tmp/lsptmp"
	DefaultLogFile       = "/var/log/lspcontainer.log"
	DefaultScriptLogFile = "/var/log/lsp-container-installs.log"
)

// Layout captures the filesystem locations the manager writes to.
type Layout struct {
	ScratchDir    string
	LogFile       string
	ScriptLogFile string
}

// Default returns the well-known locations, honoring LSPMANAGER_SCRATCH_DIR,
// LSPMANAGER_LOG_FILE and LSPMANAGER_SCRIPT_LOG_FILE when set.
func Default() (Layout, error) {
	scratch, err := fromEnv("LSPMANAGER_SCRATCH_DIR", DefaultScratchDir)
	if err != nil {
		return Layout{}, err
	}
	logFile, err := fromEnv("LSPMANAGER_LOG_FILE", DefaultLogFile)
	if err != nil {
		return Layout{}, err
	}
	scriptLog, err := fromEnv("LSPMANAGER_SCRIPT_LOG_FILE", DefaultScriptLogFile)
	if err != nil {
		return Layout{}, err
	}
	return Layout{ScratchDir: scratch, LogFile: logFile, ScriptLogFile: scriptLog}, nil
}

func fromEnv(key, fallback string) (string, error) {
	override, ok := os.LookupEnv(key)
	if !ok || override == "" {
		return fallback, nil
	}
	abs, err := filepath.Abs(override)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", key, err)
	}
	return abs, nil
}

// EnsureScratchDir creates the scratch directory and its parents. It is safe
// to call repeatedly; nothing ever removes the directory's contents.
func (l Layout) EnsureScratchDir() error {
	if l.ScratchDir == "" {
		return fmt.Errorf("scratch directory not configured")
	}
	exists, err := DirExists(l.ScratchDir)
	if err != nil {
		return fmt.Errorf("stat scratch directory: %w", err)
	}
	if exists {
		return nil
	}
	if err := os.MkdirAll(l.ScratchDir, 0o755); err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	return nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
