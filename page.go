package mergepager

import "github.com/samber/lo"

// Result is a merged item together with the composite cursor that resumes
// right after it.
type Result[T Positioned] struct {
	Item   T
	Cursor string
}

// Page is what every pager returns.
type Page[T Positioned] struct {
	Results []Result[T]
	// Total is the sum of all source totals, nil when any source cannot
	// report one.
	Total *int
}

// Items returns the merged items without their cursors.
func (p Page[T]) Items() []T {
	return lo.Map(p.Results, func(r Result[T], _ int) T {
		return r.Item
	})
}

// LastCursor returns the cursor of the last result, or "" for an empty page.
// Pass it back as the starting cursor to continue.
func (p Page[T]) LastCursor() string {
	return lo.LastOrEmpty(p.Results).Cursor
}
