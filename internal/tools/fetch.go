package tools

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	scriptNameLength = 10
	scriptMode       = 0o774
)

// randomLetter is swapped out in tests.
var randomLetter = func() byte {
	return byte('a' + rand.IntN(26))
}

// Fetcher stages install scripts in a scratch directory.
type Fetcher struct {
	Dir    string
	Client *http.Client
	Logger *log.Logger
}

// Fetch copies the script at location into the scratch directory under a
// random name and marks it executable. Failures are logged and reported as
// ok == false; there is no error to inspect.
func (f *Fetcher) Fetch(ctx context.Context, location string) (Script, bool) {
	logger := f.logger()
	logger.Info("Trying to download install script", "location", location)

	body, err := f.read(ctx, location)
	if err != nil {
		logger.Error("download install script", "location", location, "err", err)
		return Script{}, false
	}

	path := filepath.Join(f.Dir, randomName(scriptNameLength))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		logger.Error("write install script", "path", path, "err", err)
		return Script{}, false
	}
	if err := os.Chmod(path, scriptMode); err != nil {
		logger.Error("mark install script executable", "path", path, "err", err)
		return Script{}, false
	}

	logger.Info("Downloaded install script", "path", path)
	return Script{Path: path, Mode: scriptMode}, true
}

func (f *Fetcher) read(ctx context.Context, location string) ([]byte, error) {
	parsed, err := url.Parse(location)
	if err == nil {
		switch parsed.Scheme {
		case "http", "https":
			return f.download(ctx, location)
		case "file":
			return os.ReadFile(parsed.Path)
		}
	}
	return os.ReadFile(location)
}

func (f *Fetcher) download(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "lspmanager/1.0")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download %s: unexpected status %s", location, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) logger() *log.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return log.Default()
}

func randomName(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(randomLetter())
	}
	return b.String()
}
