package config

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func offlineClient(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network disabled in test")
	})}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolveSourcesAgree(t *testing.T) {
	doc := goplsDocs[FormatYAML]

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, doc)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "lsp.yaml")
	writeFile(t, path, doc)

	r := NewResolver(srv.Client(), quietLogger())
	for name, ref := range map[string]string{"text": doc, "file": path, "url": srv.URL + "/lsp.yaml"} {
		t.Run(name, func(t *testing.T) {
			rec, err := r.Resolve(context.Background(), ref)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if rec.Format != FormatYAML {
				t.Fatalf("format = %s, want yaml", rec.Format)
			}
			if !reflect.DeepEqual(rec.Tree, goplsTree()) {
				t.Fatalf("tree = %#v, want %#v", rec.Tree, goplsTree())
			}
		})
	}
}

func TestResolveFileKeepsFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lsp.toml")
	writeFile(t, path, goplsDocs[FormatTOML])

	r := NewResolver(offlineClient(t), quietLogger())
	rec, err := r.Resolve(context.Background(), []byte(path))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rec.Format != FormatTOML {
		t.Fatalf("format = %s, want toml", rec.Format)
	}
}

type serverOptions map[string]any

func TestResolveStructured(t *testing.T) {
	r := NewResolver(offlineClient(t), quietLogger())

	tests := []struct {
		name string
		ref  any
		want Tree
	}{
		{"plain mapping", map[string]any{"key": "value"}, Tree{"key": "value"}},
		{"string values", map[string]string{"key": "value"}, Tree{"key": "value"}},
		{"int values", map[string]int{"port": 4389}, Tree{"port": int64(4389)}},
		{"named map type", serverOptions{"args": []string{"--stdio"}}, Tree{"args": []any{"--stdio"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := r.Resolve(context.Background(), tt.ref)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if rec.Format != FormatStructured {
				t.Fatalf("format = %s, want structured", rec.Format)
			}
			if !reflect.DeepEqual(rec.Tree, tt.want) {
				t.Fatalf("tree = %#v, want %#v", rec.Tree, tt.want)
			}
		})
	}
}

func TestResolveInvalidReference(t *testing.T) {
	r := NewResolver(offlineClient(t), quietLogger())
	for _, ref := range []any{42, nil, []string{"a"}, 3.5, map[int]string{1: "a"}} {
		_, err := r.Resolve(context.Background(), ref)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Resolve(%#v) error = %v, want ErrInvalidConfig", ref, err)
		}
	}
}

func TestResolveUnrecognizedSource(t *testing.T) {
	r := NewResolver(offlineClient(t), quietLogger())
	_, err := r.Resolve(context.Background(), "{unterminated")
	if !errors.Is(err, ErrUnrecognizedSource) {
		t.Fatalf("error = %v, want ErrUnrecognizedSource", err)
	}
}

func TestResolveURLRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "not found"}`)
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), quietLogger())
	_, err := r.Resolve(context.Background(), srv.URL+"/missing.json")
	if !errors.Is(err, ErrUnrecognizedSource) {
		t.Fatalf("error = %v, want ErrUnrecognizedSource", err)
	}
}
