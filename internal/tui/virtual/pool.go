package virtual

// Item is anything the pool can bind: Key must be a stable identity (the
// article link) so content is only re-rendered when the binding changes.
type Item interface {
	Key() string
}

// Slot is one reusable display node. Slots past the end of the item range are
// hidden, never removed; their last content is kept so rebinding the same
// item later is free.
type Slot struct {
	Index   int
	Key     string
	Content string
	Visible bool
}

// Pool is a fixed arena of slots recycled as the window moves. The arena is
// allocated once and never resized by scrolling or filtering.
type Pool struct {
	slots    []Slot
	rewrites int
}

// NewPool allocates an arena of size slots.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make([]Slot, size)}
}

// Size returns the arena size.
func (p *Pool) Size() int {
	return len(p.slots)
}

// Slots exposes the arena for drawing. Callers must not retain the slice
// across a Bind.
func (p *Pool) Slots() []Slot {
	return p.slots
}

// Rewrites counts how many times slot content was actually re-rendered,
// which is the churn the pool exists to minimize.
func (p *Pool) Rewrites() int {
	return p.rewrites
}

// Bind assigns the contiguous index window starting at w.First across the
// arena. Slot content is rewritten only when the bound identity changes;
// slots whose index falls outside [0, len(items)) are hidden in place.
func Bind[T Item](p *Pool, w Window, items []T, render func(item T, index int) string) {
	for i := range p.slots {
		index := w.First + i
		slot := &p.slots[i]
		slot.Index = index

		if index < 0 || index >= len(items) {
			slot.Visible = false
			continue
		}

		item := items[index]
		if key := item.Key(); slot.Key != key {
			slot.Key = key
			slot.Content = render(item, index)
			p.rewrites++
		}
		slot.Visible = true
	}
}

// Reset drops all bindings, forcing the next Bind to rewrite every visible
// slot. Used when a retry replaces the item set wholesale.
func (p *Pool) Reset() {
	for i := range p.slots {
		p.slots[i] = Slot{}
	}
}
