package tools

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultScriptsBase is where install scripts are read from unless
// LSPMANAGER_SCRIPTS_URL points somewhere else (a directory or an HTTP base).
const DefaultScriptsBase = "/usr/local/share/lspmanager/scripts"

var toolDefinitions = map[string]Target{
	"bash-language-server":       {Name: "bash-language-server", Languages: []string{"sh", "bash"}},
	"clangd":                     {Name: "clangd", Languages: []string{"c", "cpp"}},
	"gopls":                      {Name: "gopls", Languages: []string{"go"}},
	"lua-language-server":        {Name: "lua-language-server", Languages: []string{"lua"}},
	"pyright":                    {Name: "pyright", Binary: "pyright-langserver", Languages: []string{"python"}},
	"rust-analyzer":              {Name: "rust-analyzer", Languages: []string{"rust"}},
	"typescript-language-server": {Name: "typescript-language-server", Languages: []string{"javascript", "typescript"}},
	"yaml-language-server":       {Name: "yaml-language-server", Languages: []string{"yaml"}},
}

// KnownTools returns the list of registered tool names.
func KnownTools() []string {
	names := make([]string, 0, len(toolDefinitions))
	for name := range toolDefinitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definition returns the registry entry for name with its script location
// filled in. Names match case-insensitively.
func Definition(name string) (Target, bool) {
	def, ok := toolDefinitions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Target{}, false
	}
	def.Script = scriptsBase() + "/" + def.Name + ".sh"
	if def.Binary == "" {
		def.Binary = def.Name
	}
	return def, true
}

// Lookup is Definition with a miss reported as ErrUnknownTool.
func Lookup(name string) (Target, error) {
	def, ok := Definition(name)
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return def, nil
}

func scriptsBase() string {
	if override, ok := os.LookupEnv("LSPMANAGER_SCRIPTS_URL"); ok && override != "" {
		return strings.TrimRight(override, "/")
	}
	return DefaultScriptsBase
}
