package mergepager

import (
	"context"
	"fmt"

	"github.com/samber/lo"
)

// QueuePager keeps one merge running across calls: every GetNextResults
// continues exactly where the previous one stopped, so any split of page
// sizes yields the same sequence as a single large call.
//
// A QueuePager is not safe for concurrent use.
type QueuePager[T Positioned] struct {
	scheduler *scheduler[T]
}

// NewQueuePager reads sources through adapters, starting at the positions in
// the options' cursor. The first item of every source is fetched before it
// returns.
func NewQueuePager[T Positioned](ctx context.Context, opts *Options, sources ...Source[T]) (*QueuePager[T], error) {
	adapters := lo.Map(sources, func(src Source[T], _ int) *Adapter[T] {
		return NewAdapter(src)
	})

	return NewQueuePagerFromAdapters(ctx, opts, adapters...)
}

// NewQueuePagerFromAdapters is NewQueuePager for adapters configured by the
// caller, e.g. with filters. The adapters must not have been read yet.
func NewQueuePagerFromAdapters[T Positioned](ctx context.Context, opts *Options, adapters ...*Adapter[T]) (*QueuePager[T], error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("cannot build queue pager: %w", err)
	}

	positions := DecodeCursor(opts.GetCursor())
	for i, a := range adapters {
		if err := a.prepare(positionAt(positions, i), opts.GetFetchSize(), pagerQueue); err != nil {
			return nil, fmt.Errorf("cannot build queue pager: source %d: %w", i, err)
		}
	}

	s, err := newScheduler(ctx, opts, positions, adapters, pagerQueue)
	if err != nil {
		return nil, err
	}

	return &QueuePager[T]{scheduler: s}, nil
}

// GetNextResults returns the next count merged items. Fewer items mean the
// sources are exhausted. After a fetch error every later call fails with
// ErrPagerBroken; build a new pager from the last cursor the caller received.
func (p *QueuePager[T]) GetNextResults(ctx context.Context, count int) (Page[T], error) {
	return p.scheduler.getNextResults(ctx, count)
}
