package mergepager

import (
	"context"
	"errors"
	"time"

	"github.com/samber/lo"
)

var errAdapterStarted = errors.New("adapter already started reading its source")

// Adapter turns a Source into a pull-based sequence of items. It buffers one
// batch at a time and never has more than one fetch in flight.
//
// An Adapter is not safe for concurrent use.
type Adapter[T Positioned] struct {
	source    Source[T]
	cursor    string
	pending   []T
	started   bool
	exhausted bool
	filter    func(T) bool
	total     *int
	fetches   int
	pager     string
}

// NewAdapter wraps source. Reading starts at the beginning of the source
// unless a pager positions it first.
func NewAdapter[T Positioned](source Source[T]) *Adapter[T] {
	return &Adapter[T]{
		source: source,
		pager:  "adapter",
	}
}

// WithFilter drops every item for which keep returns false. Batches emptied
// by the filter are topped up from the source transparently. A filtered
// adapter never reports a total.
func (a *Adapter[T]) WithFilter(keep func(T) bool) *Adapter[T] {
	a.filter = keep

	return a
}

// prepare positions the adapter for a pager; it fails once the source has
// been read.
func (a *Adapter[T]) prepare(cursor string, fetchSize int, pager string) error {
	if a.started {
		return errAdapterStarted
	}

	a.cursor = cursor
	a.source = a.source.withDefaultFetchSize(fetchSize)
	a.pager = pager

	return nil
}

// Next returns the next item. The boolean is false once the source is
// exhausted.
func (a *Adapter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		if len(a.pending) > 0 {
			item := a.pending[0]
			a.pending = a.pending[1:]
			return item, true, nil
		}

		if a.exhausted {
			return lo.Empty[T](), false, nil
		}

		if err := a.fill(ctx); err != nil {
			return lo.Empty[T](), false, err
		}
	}
}

func (a *Adapter[T]) fill(ctx context.Context) error {
	a.started = true

	start := time.Now()
	b, err := a.source.fetch(ctx, a.cursor)
	a.fetches++
	observeFetch(a.pager, start, err)
	if err != nil {
		return err
	}

	a.total = b.total
	// A batch that neither yields items nor moves the cursor ends the source,
	// whatever its more flag says.
	a.exhausted = !b.hasMore || (len(b.results) == 0 && b.next == a.cursor)
	a.cursor = b.next

	if a.filter == nil {
		a.pending = b.results
		return nil
	}

	a.pending = lo.Filter(b.results, func(item T, _ int) bool {
		return a.filter(item)
	})

	return nil
}

// SortKey returns the ordering key of item.
func (a *Adapter[T]) SortKey(item T) string {
	return a.source.SortKey(item)
}

// TotalResults returns the total reported by the latest fetch: nil before the
// first fetch, when the source has no total, or when a filter is attached.
func (a *Adapter[T]) TotalResults() *int {
	if a.filter != nil {
		return nil
	}

	return a.total
}

// Fetches returns how many times the underlying source was called.
func (a *Adapter[T]) Fetches() int {
	return a.fetches
}
