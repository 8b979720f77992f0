package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// codec is one candidate of the detection cascade.
type codec struct {
	format    Format
	parse     func(string) (Tree, error)
	serialize Serializer
}

// cascade is ordered: trivial documents are valid in more than one format and
// the first codec that accepts the text wins.
var cascade = []codec{
	{format: FormatTOML, parse: parseTOML, serialize: marshalTOML},
	{format: FormatJSON, parse: parseJSON, serialize: marshalJSON},
	{format: FormatYAML, parse: parseYAML, serialize: marshalYAML},
}

// Detect decodes text with the first codec in the cascade that accepts it.
// A candidate is accepted only when the document root is a mapping.
func Detect(text string) (Record, error) {
	var failures []error
	for _, c := range cascade {
		tree, err := c.parse(text)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", c.format, err))
			continue
		}
		return Record{Format: c.format, Serializer: c.serialize, Tree: tree}, nil
	}
	return Record{}, fmt.Errorf("%w: %w", ErrUnknownFormat, errors.Join(failures...))
}

func parseTOML(text string) (Tree, error) {
	tree := Tree{}
	if _, err := toml.Decode(text, &tree); err != nil {
		return nil, err
	}
	return normalizeTree(tree), nil
}

func parseJSON(text string) (Tree, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}
	return asTree(doc)
}

func parseYAML(text string) (Tree, error) {
	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	return asTree(doc)
}

func marshalJSON(tree Tree) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(markFloats(tree)); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func marshalTOML(tree Tree) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tree); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func marshalYAML(tree Tree) (string, error) {
	buf, err := yaml.Marshal(markFloats(tree))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// wholeFloat is a float64 with no fractional part. JSON and YAML encoders
// write those like integers, which decode back as int64; wholeFloat keeps a
// ".0" on them instead.
type wholeFloat float64

func (f wholeFloat) text() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (f wholeFloat) MarshalJSON() ([]byte, error) {
	return []byte(f.text()), nil
}

func (f wholeFloat) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: f.text()}, nil
}

// markFloats copies v with every whole float64 wrapped in wholeFloat.
func markFloats(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = markFloats(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = markFloats(val)
		}
		return out
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return wholeFloat(t)
		}
	}
	return v
}
