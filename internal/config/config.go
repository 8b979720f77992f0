package config

import (
	"errors"
	"fmt"
)

// Format identifies the serialization family a config was decoded from.
type Format string

const (
	FormatStructured Format = "structured"
	FormatJSON       Format = "json"
	FormatTOML       Format = "toml"
	FormatYAML       Format = "yaml"
)

var (
	// ErrUnknownFormat reports text that none of the supported codecs accept.
	ErrUnknownFormat = errors.New("unknown config format")
	// ErrUnrecognizedSource reports a text reference that failed as literal
	// text, as a file path and as a URL.
	ErrUnrecognizedSource = errors.New("unrecognized config source")
	// ErrInvalidConfig reports a reference that is neither a structured value
	// nor text.
	ErrInvalidConfig = errors.New("invalid config reference")
	// ErrNoConfig is returned when dumping a store that was never loaded.
	ErrNoConfig = errors.New("no config loaded")
)

// Tree is the canonical decoded form of a config document.
type Tree = map[string]any

// Serializer renders a tree back into text of a specific format.
type Serializer func(Tree) (string, error)

// Record is a decoded config along with the format it was detected as and
// the serializer that writes it back out in that format.
type Record struct {
	Format     Format
	Serializer Serializer
	Tree       Tree
}

// Dump serializes the record's tree in the record's own format.
func (r Record) Dump() (string, error) {
	if r.Serializer == nil {
		return "", fmt.Errorf("dump %s config: %w", r.Format, ErrNoConfig)
	}
	out, err := r.Serializer(r.Tree)
	if err != nil {
		return "", fmt.Errorf("dump %s config: %w", r.Format, err)
	}
	return out, nil
}

// Structured wraps an in-memory tree without running the format cascade.
// Its serializer is the JSON encoder.
func Structured(tree Tree) Record {
	if tree == nil {
		tree = Tree{}
	}
	return Record{
		Format:     FormatStructured,
		Serializer: marshalJSON,
		Tree:       normalizeTree(tree),
	}
}
