package mergepager

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// candidate is a fetched item waiting to be merged.
type candidate[T Positioned] struct {
	item  T
	index int
	key   string
}

func sortCandidates[T Positioned](opts *Options, candidates []*candidate[T]) {
	slices.SortStableFunc(candidates, func(a, b *candidate[T]) int {
		return opts.compareEntries(a.key, a.index, b.key, b.index)
	})
}

// OneShotPage fetches one page from every source at the position stored in
// the options' cursor, merges everything once and keeps the first page size
// items. Nothing is kept between calls.
//
// Items that were fetched but cut off by the page size are not remembered:
// continue with the cursor of the last returned result, never with anything
// derived from the fetched data.
func OneShotPage[T Positioned](ctx context.Context, opts *Options, sources ...OneShotSource[T]) (Page[T], error) {
	if err := opts.validate(); err != nil {
		return Page[T]{}, fmt.Errorf("cannot fetch one-shot page: %w", err)
	}

	pageSize := opts.GetPageSize()
	positions := DecodeCursor(opts.GetCursor())
	logger := opts.getLogger().With().Str("pager", pagerOneShot).Logger()

	fetched := make([]OneShotResults[T], len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			start := time.Now()
			res, err := src.GetResults(gctx, positionAt(positions, i), true, pageSize)
			observeFetch(pagerOneShot, start, err)
			if err != nil {
				return err
			}
			fetched[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debug().Err(err).Msg("fetch failed")
		return Page[T]{}, err
	}

	total := newAggregateTotal(len(sources))
	candidates := make([]*candidate[T], 0, len(sources)*pageSize)
	for i, res := range fetched {
		total.observe(i, res.Total)
		candidates = append(candidates, lo.Map(res.Results, func(item T, _ int) *candidate[T] {
			return &candidate[T]{item: item, index: i, key: sources[i].SortKey(item)}
		})...)
	}

	sortCandidates(opts, candidates)
	if len(candidates) > pageSize {
		candidates = candidates[:pageSize]
	}

	results := make([]Result[T], 0, len(candidates))
	for _, c := range candidates {
		positions = withPosition(positions, c.index, c.item.Position())
		results = append(results, Result[T]{
			Item:   c.item,
			Cursor: EncodeCursor(positions),
		})
	}

	ResultsEmitted.WithLabelValues(pagerOneShot).Add(float64(len(results)))
	logger.Debug().
		Int("sources", len(sources)).
		Int("page_size", pageSize).
		Int("returned", len(results)).
		Msg("page assembled")

	return Page[T]{
		Results: results,
		Total:   total.value(),
	}, nil
}
