package tools

import (
	"errors"
	"sort"
	"testing"
)

func TestLookupKnownTool(t *testing.T) {
	t.Setenv("LSPMANAGER_SCRIPTS_URL", "")

	target, err := Lookup("gopls")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if target.Name != "gopls" {
		t.Fatalf("Name = %q", target.Name)
	}
	if want := DefaultScriptsBase + "/gopls.sh"; target.Script != want {
		t.Fatalf("Script = %q, want %q", target.Script, want)
	}
}

func TestLookupScriptsBaseOverride(t *testing.T) {
	t.Setenv("LSPMANAGER_SCRIPTS_URL", "https://mirror.example/scripts/")

	target, err := Lookup("clangd")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if want := "https://mirror.example/scripts/clangd.sh"; target.Script != want {
		t.Fatalf("Script = %q, want %q", target.Script, want)
	}
}

func TestLookupUnknownTool(t *testing.T) {
	_, err := Lookup("unknown-tool-xyz")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("error = %v, want ErrUnknownTool", err)
	}
}

func TestKnownToolsSorted(t *testing.T) {
	names := KnownTools()
	if len(names) != len(toolDefinitions) {
		t.Fatalf("got %d names, want %d", len(names), len(toolDefinitions))
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
}

func TestLookupNormalizesName(t *testing.T) {
	target, err := Lookup("  GoPLS ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if target.Name != "gopls" {
		t.Fatalf("Name = %q, want gopls", target.Name)
	}
}
