package config

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
)

// asTree accepts a decoded document only when its root is a mapping.
func asTree(doc any) (Tree, error) {
	switch doc.(type) {
	case map[string]any, map[any]any:
		return normalize(doc).(Tree), nil
	case nil:
		return nil, fmt.Errorf("empty document")
	default:
		return nil, fmt.Errorf("document root is %T, not a mapping", doc)
	}
}

func normalizeTree(tree Tree) Tree {
	return normalize(tree).(Tree)
}

// normalize rewrites decoder-specific shapes into the canonical tree: string
// keyed maps, []any sequences, int64 integers and float64 floats. Trees from
// different codecs holding the same document compare equal afterwards.
func normalize(v any) any {
	switch t := v.(type) {
	case nil, string, bool, int64, float64:
		return t
	case map[string]any:
		out := make(Tree, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(Tree, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return normalizeUint(uint64(t))
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return normalizeUint(t)
	case float32:
		return float64(t)
	}
	return normalizeReflect(v)
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

// normalizeReflect handles typed containers handed in by Go callers, such as
// []string or map[string]int.
func normalizeReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		out := make(Tree, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}
