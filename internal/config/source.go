package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// Resolver turns an opaque config reference into a decoded record. Callers do
// not say whether a string is inline text, a path or a URL; each is tried in
// turn.
type Resolver struct {
	Client *http.Client
	Logger *log.Logger
}

// NewResolver returns a resolver using client for URL sources. A nil client
// means http.DefaultClient; a nil logger means log.Default().
func NewResolver(client *http.Client, logger *log.Logger) *Resolver {
	return &Resolver{Client: client, Logger: logger}
}

type source struct {
	kind string
	load func(context.Context, string) (Record, error)
}

// Resolve accepts a structured value (any map with string keys), a string or
// a byte slice.
func (r *Resolver) Resolve(ctx context.Context, ref any) (Record, error) {
	switch v := ref.(type) {
	case Tree:
		return Structured(v), nil
	case string:
		return r.resolveText(ctx, v)
	case []byte:
		return r.resolveText(ctx, string(v))
	default:
		if isStringKeyedMap(ref) {
			return Structured(normalize(ref).(Tree)), nil
		}
		return Record{}, fmt.Errorf("%w: got %T, want a mapping or text", ErrInvalidConfig, ref)
	}
}

func isStringKeyedMap(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

func (r *Resolver) resolveText(ctx context.Context, ref string) (Record, error) {
	sources := []source{
		{kind: "text", load: r.fromText},
		{kind: "file", load: r.fromFile},
		{kind: "url", load: r.fromURL},
	}

	var failures []error
	for _, src := range sources {
		rec, err := src.load(ctx, ref)
		if err != nil {
			r.logger().Debug("config source rejected", "kind", src.kind, "err", err)
			failures = append(failures, fmt.Errorf("as %s: %w", src.kind, err))
			continue
		}
		r.logger().Debug("config source accepted", "kind", src.kind, "format", rec.Format)
		return rec, nil
	}
	return Record{}, fmt.Errorf("%w: %w", ErrUnrecognizedSource, errors.Join(failures...))
}

func (r *Resolver) fromText(_ context.Context, ref string) (Record, error) {
	return Detect(ref)
}

func (r *Resolver) fromFile(_ context.Context, ref string) (Record, error) {
	contents, err := os.ReadFile(ref)
	if err != nil {
		return Record{}, err
	}
	return Detect(string(contents))
}

func (r *Resolver) fromURL(ctx context.Context, ref string) (Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "lspmanager/1.0")

	resp, err := r.client().Do(req)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Record{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Record{}, fmt.Errorf("read body: %w", err)
	}
	if !utf8.Valid(body) {
		return Record{}, errors.New("response body is not utf-8 text")
	}
	return Detect(string(body))
}

func (r *Resolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
