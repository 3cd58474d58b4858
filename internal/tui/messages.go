package tui

import "github.com/newsdeckapp/newsdeck/internal/headlines"

type loadedMsg struct {
	res headlines.Result
}

// rebindTickMsg fires the trailing edge of a throttled scroll recompute.
type rebindTickMsg struct{}

// redrawTickMsg fires the periodic re-render of bound slot content, so
// relative timestamps do not go stale between fetch cycles.
type redrawTickMsg struct{}
