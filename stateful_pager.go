package mergepager

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// StatefulPager returns exactly the requested number of items per call while
// any source still has data. Items fetched beyond what a page needs are held
// in a per-source FIFO buffer until a later page consumes them.
//
// A StatefulPager is forward-only and not safe for concurrent use.
type StatefulPager[T Positioned] struct {
	opts      *Options
	sources   []OneShotSource[T]
	positions []string
	buffers   [][]*candidate[T]
	completed []bool
	total     aggregateTotal
	logger    zerolog.Logger
}

// NewStatefulPager starts after the options' cursor. Nothing is fetched until
// the first GetNextResults.
func NewStatefulPager[T Positioned](opts *Options, sources ...OneShotSource[T]) (*StatefulPager[T], error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("cannot build stateful pager: %w", err)
	}

	return &StatefulPager[T]{
		opts:      opts,
		sources:   sources,
		positions: DecodeCursor(opts.GetCursor()),
		buffers:   make([][]*candidate[T], len(sources)),
		completed: make([]bool, len(sources)),
		total:     newAggregateTotal(len(sources)),
		logger:    opts.getLogger().With().Str("pager", pagerStateful).Logger(),
	}, nil
}

// GetNextResults returns the next pageSize merged items. A shorter page is
// returned only once every source is complete.
//
// ErrIncompletePage and ErrOutOfOrder report sources that break their
// contract; the pager is unusable afterwards.
func (p *StatefulPager[T]) GetNextResults(ctx context.Context, pageSize int) (Page[T], error) {
	pageSize = max(pageSize, 0)

	if err := p.fill(ctx, pageSize); err != nil {
		return Page[T]{}, err
	}

	return p.assemble(pageSize)
}

// assemble merges the buffers and consumes the first pageSize items.
func (p *StatefulPager[T]) assemble(pageSize int) (Page[T], error) {
	all := lo.Flatten(p.buffers)
	sortCandidates(p.opts, all)
	if len(all) > pageSize {
		all = all[:pageSize]
	}

	if len(all) != pageSize && !p.allCompleted() {
		ProtocolViolations.WithLabelValues("incomplete_page").Inc()
		p.logger.Error().
			Int("page_size", pageSize).
			Int("available", len(all)).
			Msg("short page while sources are incomplete")
		return Page[T]{}, ErrIncompletePage
	}

	results := make([]Result[T], 0, len(all))
	for _, c := range all {
		buffer := p.buffers[c.index]
		if len(buffer) == 0 || buffer[0] != c {
			ProtocolViolations.WithLabelValues("out_of_order").Inc()
			p.logger.Error().
				Int("source", c.index).
				Str("key", c.key).
				Msg("merged item is not at the head of its buffer")
			return Page[T]{}, fmt.Errorf("source %d: %w", c.index, ErrOutOfOrder)
		}

		p.buffers[c.index] = buffer[1:]
		p.positions = withPosition(p.positions, c.index, c.item.Position())
		results = append(results, Result[T]{
			Item:   c.item,
			Cursor: EncodeCursor(p.positions),
		})
	}

	ResultsEmitted.WithLabelValues(pagerStateful).Add(float64(len(results)))
	p.logger.Debug().
		Int("page_size", pageSize).
		Int("returned", len(results)).
		Msg("page assembled")

	return Page[T]{
		Results: results,
		Total:   p.total.value(),
	}, nil
}

// fill tops up every incomplete source whose buffer cannot cover pageSize on
// its own. All fetches run concurrently; buffers change only after all of
// them succeeded.
func (p *StatefulPager[T]) fill(ctx context.Context, pageSize int) error {
	if p.allCompleted() {
		return nil
	}

	type fetch struct {
		limit   int
		results OneShotResults[T]
		done    bool
	}

	fetches := make([]fetch, len(p.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		if p.completed[i] || len(p.buffers[i]) >= pageSize {
			continue
		}

		needed := pageSize - len(p.buffers[i])
		limit := max(p.opts.GetMinPageSize(), needed)
		cursor := positionAt(p.positions, i)
		if len(p.buffers[i]) > 0 {
			cursor = lo.LastOrEmpty(p.buffers[i]).item.Position()
		}

		g.Go(func() error {
			start := time.Now()
			res, err := src.GetResults(gctx, cursor, true, limit)
			observeFetch(pagerStateful, start, err)
			if err != nil {
				return err
			}
			fetches[i] = fetch{limit: limit, results: res, done: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Debug().Err(err).Msg("fetch failed")
		return err
	}

	for i, f := range fetches {
		if !f.done {
			continue
		}

		if len(f.results.Results) < f.limit {
			p.completed[i] = true
		}
		p.total.observe(i, f.results.Total)
		p.buffers[i] = append(p.buffers[i], lo.Map(f.results.Results, func(item T, _ int) *candidate[T] {
			return &candidate[T]{item: item, index: i, key: p.sources[i].SortKey(item)}
		})...)

		p.logger.Debug().
			Int("source", i).
			Int("limit", f.limit).
			Int("fetched", len(f.results.Results)).
			Bool("completed", p.completed[i]).
			Msg("source topped up")
	}

	return nil
}

func (p *StatefulPager[T]) allCompleted() bool {
	return !lo.Contains(p.completed, false)
}
