// Package app ties the context store and the three contribution registries
// together into one application instance, and exposes the dispatcher
// surface hosts call with the current context applied implicitly.
package app

import (
	"context"
	"fmt"
	"sync"

	"appmodel/appctx"
	"appmodel/keys"
	"appmodel/registry"
)

// Application owns one context store and one set of registries. Instances
// share nothing, so tests can spin up throwaway applications freely.
type Application struct {
	name string

	ctx         *appctx.Store
	commands    *registry.Commands
	menus       *registry.Menus
	keybindings *registry.Keybindings
}

var (
	instancesMu sync.Mutex
	instances   = make(map[string]*Application)
)

// Config carries optional collaborators for a new application.
type Config struct {
	// ArgResolver supplies declared command parameters at execution time.
	// nil is fine when no command declares parameters.
	ArgResolver registry.ArgResolver
}

// New creates and records a named application instance. The name must be
// unused; use GetOrCreate for idempotent access.
func New(name string, cfg Config) (*Application, error) {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	if _, exists := instances[name]; exists {
		return nil, fmt.Errorf("application %q already exists", name)
	}
	a := newApplication(name, cfg)
	instances[name] = a
	return a, nil
}

// Get returns the named instance, if it exists.
func Get(name string) (*Application, bool) {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	a, ok := instances[name]
	return a, ok
}

// GetOrCreate returns the named instance, creating it with a zero Config if
// needed.
func GetOrCreate(name string) *Application {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	if a, ok := instances[name]; ok {
		return a
	}
	a := newApplication(name, Config{})
	instances[name] = a
	return a
}

// Destroy forgets a named instance. Existing references keep working; the
// name just becomes available again.
func Destroy(name string) {
	instancesMu.Lock()
	delete(instances, name)
	instancesMu.Unlock()
}

func newApplication(name string, cfg Config) *Application {
	return &Application{
		name:        name,
		ctx:         appctx.NewStore(),
		commands:    registry.NewCommands(cfg.ArgResolver),
		menus:       registry.NewMenus(),
		keybindings: registry.NewKeybindings(),
	}
}

// Name returns the instance name.
func (a *Application) Name() string { return a.name }

// Context returns the instance's context store.
func (a *Application) Context() *appctx.Store { return a.ctx }

// Commands returns the command registry.
func (a *Application) Commands() *registry.Commands { return a.commands }

// Menus returns the menu registry.
func (a *Application) Menus() *registry.Menus { return a.menus }

// Keybindings returns the keybinding registry.
func (a *Application) Keybindings() *registry.Keybindings { return a.keybindings }

// VisibleMenu resolves a menu against the current context snapshot.
func (a *Application) VisibleMenu(menu registry.MenuID) []registry.MenuItem {
	return a.menus.Get(menu, a.ctx.Snapshot())
}

// ActiveBinding resolves the single active binding for a chord under the
// current context snapshot.
func (a *Application) ActiveBinding(chord keys.Sequence) (registry.CommandID, bool) {
	return a.keybindings.Resolve(chord, a.ctx.Snapshot())
}

// IsCommandEnabled evaluates a command's enablement against the current
// context snapshot.
func (a *Application) IsCommandEnabled(id registry.CommandID) bool {
	return a.commands.IsEnabled(id, a.ctx.Snapshot())
}

// ExecuteCommand executes a command with the enablement check applied
// against the current context snapshot.
func (a *Application) ExecuteCommand(ctx context.Context, id registry.CommandID, args map[string]any) (any, error) {
	return a.commands.Execute(ctx, id, args, a.ctx.Snapshot())
}
