package tools

import (
	"fmt"
	"os/exec"
)

// Status reports whether a tool's server binary can be found.
type Status struct {
	Tool      string `json:"tool"`
	Binary    string `json:"binary"`
	Path      string `json:"path,omitempty"`
	Installed bool   `json:"installed"`
	Error     string `json:"error,omitempty"`
}

var lookPath = exec.LookPath

// Detect returns the status of every known tool, in name order.
func Detect() []Status {
	names := KnownTools()
	statuses := make([]Status, 0, len(names))
	for _, name := range names {
		def, _ := Definition(name)
		statuses = append(statuses, detectOne(def))
	}
	return statuses
}

// DetectTool is Detect for a single tool.
func DetectTool(name string) (Status, error) {
	def, err := Lookup(name)
	if err != nil {
		return Status{}, err
	}
	return detectOne(def), nil
}

func detectOne(def Target) Status {
	status := Status{Tool: def.Name, Binary: def.Binary}
	path, err := lookPath(def.Binary)
	if err != nil {
		status.Error = fmt.Sprintf("%s not found in PATH", def.Binary)
		return status
	}
	status.Path = path
	status.Installed = true
	return status
}
