package registry

import (
	"sort"
	"sync"

	"appmodel/expr"
)

// NavigationGroup always sorts to the top of a menu, ahead of every other
// group.
const NavigationGroup = "navigation"

// MenuItem is one entry in a menu: either a command reference or a nested
// submenu reference, plus presentation metadata.
type MenuItem struct {
	// Command is the id invoked when the item is selected. Empty for
	// submenu items.
	Command CommandID

	// Alt is an optional alternate command (e.g. selected with Alt held).
	Alt CommandID

	// Submenu references another menu to nest. Set either Command or
	// Submenu, not both.
	Submenu MenuID

	// Title overrides the command title for display; required for submenu
	// items.
	Title string

	Icon *Icon

	// When gates visibility. nil means always visible.
	When expr.Expr

	// Group clusters items visually. The "navigation" group sorts first,
	// the empty group last, everything else lexicographically.
	Group string

	// Order sorts items within a group. Ties fall back to registration
	// sequence, so sorting is stable across re-resolution.
	Order float64
}

// IsSubmenu reports whether the item nests another menu.
func (it MenuItem) IsSubmenu() bool { return it.Submenu != "" }

type registeredItem struct {
	MenuItem
	seq uint64
}

// Menus indexes menu items by menu id and resolves the visible, ordered
// view of a menu for a context snapshot.
type Menus struct {
	mu      sync.RWMutex
	items   map[MenuID][]registeredItem
	nextSeq uint64
}

// NewMenus returns an empty menu registry.
func NewMenus() *Menus {
	return &Menus{items: make(map[MenuID][]registeredItem)}
}

// Add appends items to a menu and returns a dispose func removing exactly
// those items. Each item is stamped with a monotonically increasing
// sequence number, which is the final tie-break for ordering.
func (r *Menus) Add(menu MenuID, items ...MenuItem) func() {
	r.mu.Lock()
	seqs := make([]uint64, len(items))
	for i, it := range items {
		r.nextSeq++
		seqs[i] = r.nextSeq
		r.items[menu] = append(r.items[menu], registeredItem{MenuItem: it, seq: r.nextSeq})
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		kept := r.items[menu][:0]
		for _, it := range r.items[menu] {
			remove := false
			for _, seq := range seqs {
				if it.seq == seq {
					remove = true
					break
				}
			}
			if !remove {
				kept = append(kept, it)
			}
		}
		if len(kept) == 0 {
			delete(r.items, menu)
		} else {
			r.items[menu] = kept
		}
	}
}

// MenuIDs returns the ids of all menus with at least one registered item,
// sorted.
func (r *Menus) MenuIDs() []MenuID {
	r.mu.RLock()
	out := make([]MenuID, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GetOptions tweaks menu resolution.
type GetOptions struct {
	// PruneEmptySubmenus drops submenu items whose target menu resolves to
	// no visible items under the same view. By default empty submenus are
	// emitted and the host decides how to render them.
	PruneEmptySubmenus bool
}

// Get resolves the visible view of a menu: items whose When is truthy under
// view, stably sorted by (group, order, registration sequence).
func (r *Menus) Get(menu MenuID, view expr.View) []MenuItem {
	return r.GetWith(menu, view, GetOptions{})
}

// GetWith is Get with explicit options.
func (r *Menus) GetWith(menu MenuID, view expr.View, opts GetOptions) []MenuItem {
	return r.get(menu, view, opts, map[MenuID]bool{menu: true})
}

func (r *Menus) get(menu MenuID, view expr.View, opts GetOptions, seen map[MenuID]bool) []MenuItem {
	r.mu.RLock()
	visible := make([]registeredItem, 0, len(r.items[menu]))
	for _, it := range r.items[menu] {
		if expr.EvaluateBool(it.When, view) {
			visible = append(visible, it)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if ga, gb := groupRank(a.Group), groupRank(b.Group); ga != gb {
			return ga < gb
		}
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.seq < b.seq
	})

	out := make([]MenuItem, 0, len(visible))
	for _, it := range visible {
		if opts.PruneEmptySubmenus && it.IsSubmenu() {
			// Submenu cycles count as empty rather than recursing forever.
			if seen[it.Submenu] {
				continue
			}
			seen[it.Submenu] = true
			sub := r.get(it.Submenu, view, opts, seen)
			delete(seen, it.Submenu)
			if len(sub) == 0 {
				continue
			}
		}
		out = append(out, it.MenuItem)
	}
	return out
}

func groupRank(group string) int {
	switch group {
	case NavigationGroup:
		return 0
	case "":
		return 2
	default:
		return 1
	}
}
