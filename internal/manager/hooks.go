package manager

import "context"

// Controller drives running language servers. Process supervision and the
// server protocol are not implemented yet; the default controller accepts
// every request and does nothing.
type Controller interface {
	Start(ctx context.Context, name string) bool
	Stop(ctx context.Context, name string) bool
	Talk(ctx context.Context, name, data string) string
	Configure(ctx context.Context, name string, options map[string]any) bool
	Uninstall(ctx context.Context, name string) bool
}

// StateLoader restores per-tool state when a manager is constructed.
type StateLoader interface {
	LoadState(ctx context.Context) (map[string]any, error)
}

type nopController struct{}

func (nopController) Start(context.Context, string) bool                     { return true }
func (nopController) Stop(context.Context, string) bool                      { return true }
func (nopController) Talk(context.Context, string, string) string            { return "" }
func (nopController) Configure(context.Context, string, map[string]any) bool { return true }
func (nopController) Uninstall(context.Context, string) bool                 { return true }

type nopStateLoader struct{}

func (nopStateLoader) LoadState(context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

var (
	_ Controller  = nopController{}
	_ StateLoader = nopStateLoader{}
)
