package app

import (
	"fmt"

	"appmodel/expr"
	"appmodel/keys"
	"appmodel/registry"
)

// MenuRule places an action's command into a menu.
type MenuRule struct {
	Menu  registry.MenuID
	When  expr.Expr
	Group string
	Order float64
}

// Action is the complete declaration of a command: metadata plus handler,
// with the menu placements and default keybindings that should travel with
// it. Most contributions register through RegisterAction rather than
// touching the three registries individually.
type Action struct {
	registry.Command

	Menus       []MenuRule
	Keybindings []registry.KeybindingRule
}

// RegisterAction registers an action's command, menu items and keybindings
// in one step and returns a single dispose func unwinding all of them.
// Keybinding rules are pinned to the current platform; rules with no chord
// for this platform are skipped. On any failure nothing stays registered.
func (a *Application) RegisterAction(act Action) (func(), error) {
	return a.registerAction(act, keys.CurrentPlatform())
}

func (a *Application) registerAction(act Action, platform keys.Platform) (func(), error) {
	var disposers []func()
	undo := func() {
		for i := len(disposers) - 1; i >= 0; i-- {
			disposers[i]()
		}
	}

	cmd := act.Command
	disposeCmd, err := a.commands.Register(&cmd)
	if err != nil {
		return nil, err
	}
	disposers = append(disposers, disposeCmd)

	for _, rule := range act.Menus {
		disposers = append(disposers, a.menus.Add(rule.Menu, registry.MenuItem{
			Command: cmd.ID,
			When:    rule.When,
			Group:   rule.Group,
			Order:   rule.Order,
		}))
	}

	for _, rule := range act.Keybindings {
		chordText := rule.ForPlatform(platform)
		if chordText == "" {
			continue
		}
		seq, err := keys.ParseSequence(chordText)
		if err != nil {
			undo()
			return nil, fmt.Errorf("keybinding for %q: %w", cmd.ID, err)
		}
		disposers = append(disposers, a.keybindings.Register(registry.Keybinding{
			Chord:   seq,
			Command: cmd.ID,
			When:    rule.When,
			Weight:  rule.Weight,
		}))
	}

	return undo, nil
}
