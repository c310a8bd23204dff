package mergepager

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// scheduler performs the k-way merge over a fixed set of adapters. The
// frontier holds at most one pending item per adapter; only the adapter whose
// item was just emitted is advanced.
type scheduler[T Positioned] struct {
	opts      *Options
	adapters  []*Adapter[T]
	frontier  *frontier[T]
	positions []string
	total     aggregateTotal
	logger    zerolog.Logger
	pager     string
	// err is the fetch error that broke the merge. Once set, every call
	// fails with it.
	err error
}

// newScheduler pulls the first item of every adapter concurrently and only
// then fills the frontier.
func newScheduler[T Positioned](
	ctx context.Context,
	opts *Options,
	positions []string,
	adapters []*Adapter[T],
	pager string,
) (*scheduler[T], error) {
	s := &scheduler[T]{
		opts:      opts,
		adapters:  adapters,
		frontier:  newFrontier[T](opts, len(adapters)),
		positions: positions,
		total:     newAggregateTotal(len(adapters)),
		logger:    opts.getLogger().With().Str("pager", pager).Logger(),
		pager:     pager,
	}

	heads := make([]*frontierEntry[T], len(adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range adapters {
		g.Go(func() error {
			item, ok, err := a.Next(gctx)
			if err != nil {
				return err
			}
			if ok {
				heads[i] = &frontierEntry[T]{item: item, index: i, key: a.SortKey(item)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Debug().Err(err).Msg("initial fetch failed")
		return nil, err
	}

	for i, head := range heads {
		s.total.observe(i, adapters[i].TotalResults())
		if head != nil {
			s.frontier.push(*head)
		}
	}

	s.logger.Debug().
		Int("sources", len(adapters)).
		Int("frontier", s.frontier.Len()).
		Msg("frontier primed")

	return s, nil
}

// getNextResults emits up to count items in merge order. A short page means
// every source is exhausted.
func (s *scheduler[T]) getNextResults(ctx context.Context, count int) (Page[T], error) {
	if s.err != nil {
		return Page[T]{}, fmt.Errorf("%w: %w", ErrPagerBroken, s.err)
	}

	results := make([]Result[T], 0, max(count, 0))
	for len(results) < count && s.frontier.Len() > 0 {
		entry := s.frontier.pop()

		s.positions = withPosition(s.positions, entry.index, entry.item.Position())
		results = append(results, Result[T]{
			Item:   entry.item,
			Cursor: EncodeCursor(s.positions),
		})

		a := s.adapters[entry.index]
		next, ok, err := a.Next(ctx)
		if err != nil {
			s.logger.Debug().Err(err).Int("source", entry.index).Msg("fetch failed")
			s.err = err
			return Page[T]{}, err
		}
		s.total.observe(entry.index, a.TotalResults())
		if ok {
			s.frontier.push(frontierEntry[T]{item: next, index: entry.index, key: a.SortKey(next)})
		}
	}

	ResultsEmitted.WithLabelValues(s.pager).Add(float64(len(results)))
	s.logger.Debug().
		Int("requested", count).
		Int("returned", len(results)).
		Int("frontier", s.frontier.Len()).
		Msg("page assembled")

	return Page[T]{
		Results: results,
		Total:   s.total.value(),
	}, nil
}
