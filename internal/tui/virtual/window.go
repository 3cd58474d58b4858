// Package virtual implements windowed rendering: an arbitrarily long ranked
// list is drawn through a fixed pool of recycled slots, so display work stays
// bounded no matter how many items exist.
package virtual

// Window is the contiguous index range currently assigned to the slot pool.
type Window struct {
	// First is the index bound to slot 0. It includes the overscan margin,
	// so it can sit above the first visible index.
	First int
	// FirstVisible is the index of the first item inside the viewport.
	FirstVisible int
}

// PoolSize returns how many slots a viewport of the given row capacity needs:
// the visible rows plus an overscan margin on each side. The pool never
// resizes with the item count.
func PoolSize(rows, overscan int) int {
	if rows < 1 {
		rows = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return rows + 2*overscan
}

// WindowFor computes the slot assignment for a scroll position. scrollOffset
// and itemHeight are in display lines. The result depends only on its
// arguments, so recomputation is idempotent.
func WindowFor(scrollOffset, itemHeight, overscan int) Window {
	if itemHeight < 1 {
		itemHeight = 1
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	firstVisible := scrollOffset / itemHeight
	first := firstVisible - overscan
	if first < 0 {
		first = 0
	}
	return Window{First: first, FirstVisible: firstVisible}
}

// TotalHeight is the scrollable height in display lines for a filtered item
// count. Zero items means zero height.
func TotalHeight(itemCount, itemHeight int) int {
	if itemCount < 0 {
		itemCount = 0
	}
	if itemHeight < 1 {
		itemHeight = 1
	}
	return itemCount * itemHeight
}

// MaxOffset clamps scrolling so the last item can reach the viewport without
// scrolling past it.
func MaxOffset(itemCount, itemHeight, viewportLines int) int {
	max := TotalHeight(itemCount, itemHeight) - viewportLines
	if max < 0 {
		return 0
	}
	return max
}
