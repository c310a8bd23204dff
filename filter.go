package mergepager

import (
	"context"

	"github.com/samber/lo"
)

// FilteredSource drops items from a OneShotSource that can only be filtered
// locally. When the filter thins out a page it fetches further pages until
// limit items pass or the source runs out, so exhaustion is still signalled
// by a short page. It never reports a total.
type FilteredSource[T Positioned] struct {
	source OneShotSource[T]
	keep   func(T) bool
}

func NewFilteredSource[T Positioned](source OneShotSource[T], keep func(T) bool) *FilteredSource[T] {
	return &FilteredSource[T]{
		source: source,
		keep:   keep,
	}
}

// GetResults - implements OneShotSource.
func (f *FilteredSource[T]) GetResults(ctx context.Context, cursor string, forward bool, limit int) (OneShotResults[T], error) {
	limit = NormalizePageSize(limit)
	results := make([]T, 0, limit)

	for len(results) < limit {
		page, err := f.source.GetResults(ctx, cursor, forward, limit)
		if err != nil {
			return OneShotResults[T]{}, err
		}

		results = append(results, lo.Filter(page.Results, func(item T, _ int) bool {
			return f.keep(item)
		})...)

		if len(page.Results) < limit {
			break
		}
		// Continue after the last fetched item, kept or not.
		cursor = lo.LastOrEmpty(page.Results).Position()
	}

	if len(results) > limit {
		results = results[:limit]
	}

	return OneShotResults[T]{Results: results}, nil
}

// SortKey - implements OneShotSource.
func (f *FilteredSource[T]) SortKey(item T) string {
	return f.source.SortKey(item)
}

var _ OneShotSource[Positioned] = (*FilteredSource[Positioned])(nil)
