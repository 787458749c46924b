// Package registry implements the three contribution-point registries:
// commands, menus and keybindings. Registries store metadata and identifier
// references only; command execution logic stays with the host via the
// Invocable capability.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"appmodel/expr"
)

// CommandID uniquely identifies a command across the application instance.
type CommandID string

// MenuID identifies a menu (or submenu) contribution point.
type MenuID string

// Icon names the icon for a command or submenu, with an optional dark/light
// split. A single-variant icon sets both fields to the same value.
type Icon struct {
	Dark  string
	Light string
}

// Invocable is the capability interface for command handlers. Registries
// never subclass or introspect handlers; they only invoke.
type Invocable interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// InvocableFunc adapts a plain function to Invocable.
type InvocableFunc func(ctx context.Context, args map[string]any) (any, error)

func (f InvocableFunc) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f(ctx, args)
}

// ArgResolver supplies values for declared command parameters that the
// caller did not pass explicitly. It is the seam for an external
// dependency-injection collaborator; the registry passes through whatever
// it returns or fails with.
type ArgResolver interface {
	Resolve(name string) (any, error)
}

// Command is the metadata plus handler reference for one invokable action.
type Command struct {
	ID         CommandID
	Title      string
	ShortTitle string
	Category   string
	Tooltip    string
	Icon       *Icon

	// Enablement gates execution and UI enabled-state. nil means always
	// enabled.
	Enablement expr.Expr

	// Params names the declared parameters filled in from the ArgResolver
	// when absent from the Execute args.
	Params []string

	Handler Invocable
}

// Commands indexes commands by id. Mutation is serialized with reads via a
// readers-writer lock; List returns a snapshot so callers never iterate a
// live map.
type Commands struct {
	mu       sync.RWMutex
	commands map[CommandID]*Command
	resolver ArgResolver
}

// NewCommands returns an empty command registry. resolver may be nil when
// no command declares parameters.
func NewCommands(resolver ArgResolver) *Commands {
	return &Commands{
		commands: make(map[CommandID]*Command),
		resolver: resolver,
	}
}

// Register adds a command and returns a dispose func that unregisters it.
// Registering an id that already exists fails with *DuplicateCommandError.
func (r *Commands) Register(cmd *Command) (func(), error) {
	if cmd.ID == "" {
		return nil, fmt.Errorf("command id cannot be empty")
	}
	if cmd.Handler == nil {
		return nil, fmt.Errorf("command %q has no handler", cmd.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[cmd.ID]; exists {
		return nil, &DuplicateCommandError{ID: cmd.ID}
	}
	r.commands[cmd.ID] = cmd
	id := cmd.ID
	return func() { r.Unregister(id) }, nil
}

// Replace registers a command, overwriting any existing registration for
// the same id.
func (r *Commands) Replace(cmd *Command) func() {
	r.mu.Lock()
	r.commands[cmd.ID] = cmd
	r.mu.Unlock()
	id := cmd.ID
	return func() { r.Unregister(id) }
}

// Unregister removes a command. Removing an absent id is a no-op, so
// dispose funcs stay idempotent. Menu items and keybindings referencing the
// id are left in place; they resolve as disabled until the id is
// re-registered.
func (r *Commands) Unregister(id CommandID) {
	r.mu.Lock()
	delete(r.commands, id)
	r.mu.Unlock()
}

// Get returns the command registered under id.
func (r *Commands) Get(id CommandID) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[id]
	return cmd, ok
}

// List returns all registered commands sorted by id. The slice is a
// snapshot of registry state at call time and is unaffected by later
// mutation.
func (r *Commands) List() []*Command {
	r.mu.RLock()
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsEnabled evaluates the command's enablement expression against view. An
// unknown id reports false; a nil enablement reports true.
func (r *Commands) IsEnabled(id CommandID, view expr.View) bool {
	cmd, ok := r.Get(id)
	if !ok {
		return false
	}
	return expr.EvaluateBool(cmd.Enablement, view)
}

// Execute looks up id, checks enablement against view, fills declared
// parameters from the ArgResolver, then invokes the handler. A nil view
// skips the enablement check (the "host did not request the check" path).
// Handler failures, including panics, surface as *CommandExecutionError
// wrapping the cause; the registry neither swallows nor logs them.
func (r *Commands) Execute(ctx context.Context, id CommandID, args map[string]any, view expr.View) (any, error) {
	cmd, ok := r.Get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if view != nil && !expr.EvaluateBool(cmd.Enablement, view) {
		return nil, &CommandDisabledError{ID: id}
	}

	resolved, err := r.resolveArgs(cmd, args)
	if err != nil {
		return nil, &CommandExecutionError{ID: id, Err: err}
	}
	return invoke(ctx, cmd, resolved)
}

func (r *Commands) resolveArgs(cmd *Command, args map[string]any) (map[string]any, error) {
	if len(cmd.Params) == 0 {
		return args, nil
	}
	resolved := make(map[string]any, len(args)+len(cmd.Params))
	for k, v := range args {
		resolved[k] = v
	}
	for _, name := range cmd.Params {
		if _, present := resolved[name]; present {
			continue
		}
		if r.resolver == nil {
			return nil, fmt.Errorf("no resolver for parameter %q", name)
		}
		v, err := r.resolver.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("resolving parameter %q: %w", name, err)
		}
		resolved[name] = v
	}
	return resolved, nil
}

func invoke(ctx context.Context, cmd *Command, args map[string]any) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &CommandExecutionError{ID: cmd.ID, Err: fmt.Errorf("handler panic: %v", rec)}
		}
	}()
	result, err = cmd.Handler.Invoke(ctx, args)
	if err != nil {
		return nil, &CommandExecutionError{ID: cmd.ID, Err: err}
	}
	return result, nil
}
