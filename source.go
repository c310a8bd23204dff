package mergepager

import (
	"context"

	"github.com/samber/lo"
)

// Positioned is implemented by every item a source returns. Position is the
// source-native cursor of the item: fetching after it continues right past it.
type Positioned interface {
	Position() string
}

// OneShotResults is a page returned by a OneShotSource.
type OneShotResults[T Positioned] struct {
	Results []T
	// Total is the overall number of items in the source, if known.
	Total *int
}

// OneShotSource returns up to limit items after cursor. Fewer than limit
// items means the source is exhausted.
type OneShotSource[T Positioned] interface {
	GetResults(ctx context.Context, cursor string, forward bool, limit int) (OneShotResults[T], error)
	SortKey(item T) string
}

// StreamingResults is a batch returned by a StreamingSource.
type StreamingResults[T Positioned] struct {
	Results []T
	// HasMore is false once the source has nothing after this batch.
	HasMore bool
	Total   *int
	// Cursor continues after the last item of this batch.
	Cursor string
}

// StreamingSource returns batches of whatever size it likes.
type StreamingSource[T Positioned] interface {
	GetNextResults(ctx context.Context, cursor string) (StreamingResults[T], error)
	SortKey(item T) string
}

// OneShotSourceFunc lets a plain function act as a OneShotSource.
type OneShotSourceFunc[T Positioned] struct {
	Fetch func(ctx context.Context, cursor string, forward bool, limit int) (OneShotResults[T], error)
	Key   func(item T) string
}

func (f OneShotSourceFunc[T]) GetResults(ctx context.Context, cursor string, forward bool, limit int) (OneShotResults[T], error) {
	return f.Fetch(ctx, cursor, forward, limit)
}

func (f OneShotSourceFunc[T]) SortKey(item T) string {
	return f.Key(item)
}

// StreamingSourceFunc lets a plain function act as a StreamingSource.
type StreamingSourceFunc[T Positioned] struct {
	Fetch func(ctx context.Context, cursor string) (StreamingResults[T], error)
	Key   func(item T) string
}

func (f StreamingSourceFunc[T]) GetNextResults(ctx context.Context, cursor string) (StreamingResults[T], error) {
	return f.Fetch(ctx, cursor)
}

func (f StreamingSourceFunc[T]) SortKey(item T) string {
	return f.Key(item)
}

type sourceKind int

const (
	kindOneShot sourceKind = iota + 1
	kindStreaming
)

// Source is either a OneShotSource or a StreamingSource. The kind is fixed by
// the constructor that built it.
type Source[T Positioned] struct {
	kind      sourceKind
	oneShot   OneShotSource[T]
	streaming StreamingSource[T]
	fetchSize int
}

// OneShot wraps a OneShotSource. Every fetch asks for fetchSize items;
// fetchSize <= 0 defers to the pager's fetch size.
func OneShot[T Positioned](src OneShotSource[T], fetchSize int) Source[T] {
	return Source[T]{
		kind:      kindOneShot,
		oneShot:   src,
		fetchSize: max(fetchSize, 0),
	}
}

// Streaming wraps a StreamingSource.
func Streaming[T Positioned](src StreamingSource[T]) Source[T] {
	return Source[T]{
		kind:      kindStreaming,
		streaming: src,
	}
}

// batch is the single shape both source kinds are translated into.
type batch[T Positioned] struct {
	results []T
	hasMore bool
	total   *int
	next    string
}

func (s Source[T]) fetch(ctx context.Context, cursor string) (batch[T], error) {
	switch s.kind {
	case kindOneShot:
		limit := NormalizePageSize(s.fetchSize)
		res, err := s.oneShot.GetResults(ctx, cursor, true, limit)
		if err != nil {
			return batch[T]{}, err
		}

		next := cursor
		if len(res.Results) > 0 {
			next = lo.LastOrEmpty(res.Results).Position()
		}

		return batch[T]{
			results: res.Results,
			hasMore: len(res.Results) >= limit,
			total:   res.Total,
			next:    next,
		}, nil
	case kindStreaming:
		res, err := s.streaming.GetNextResults(ctx, cursor)
		if err != nil {
			return batch[T]{}, err
		}

		return batch[T]{
			results: res.Results,
			hasMore: res.HasMore,
			total:   res.Total,
			next:    res.Cursor,
		}, nil
	default:
		panic("mergepager: zero Source, build it with OneShot or Streaming")
	}
}

func (s Source[T]) withDefaultFetchSize(size int) Source[T] {
	if s.fetchSize == 0 {
		s.fetchSize = size
	}

	return s
}

// SortKey returns the ordering key of item.
func (s Source[T]) SortKey(item T) string {
	if s.kind == kindStreaming {
		return s.streaming.SortKey(item)
	}

	return s.oneShot.SortKey(item)
}
