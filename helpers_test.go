package mergepager

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type letter struct {
	cursor string
	data   string
}

func (l letter) Position() string {
	return l.cursor
}

func newLetter(day int, data string) letter {
	return letter{cursor: fmt.Sprintf("2023-01-%02dT00:00:00.000Z#%s", day, data), data: data}
}

var (
	mockLetters = []letter{
		newLetter(1, "A"),
		newLetter(2, "B"),
		newLetter(3, "C"),
		newLetter(4, "D"),
		newLetter(5, "E"),
	}
	mockDoubleLetters = []letter{
		newLetter(1, "AA"),
		newLetter(1, "AAA"),
		newLetter(2, "BB"),
		newLetter(2, "BBB"),
		newLetter(6, "FF"),
		newLetter(7, "GG"),
		newLetter(8, "HH"),
	}
)

func letterKey(l letter) string {
	return l.cursor
}

func letterData(items []letter) []string {
	return lo.Map(items, func(l letter, _ int) string {
		return l.data
	})
}

// letterSource serves items after the given cursor, whose positions double as
// sort keys. It counts calls and can be made to fail.
type letterSource struct {
	mu      sync.Mutex
	items   []letter
	noTotal bool
	failOn  int
	calls   int
	limits  []int
}

func newLetterSource(items ...[]letter) *letterSource {
	all := lo.Flatten(items)
	sort.SliceStable(all, func(i, j int) bool { return all[i].cursor < all[j].cursor })

	return &letterSource{items: all}
}

func (s *letterSource) after(cursor string) []letter {
	return lo.Filter(s.items, func(l letter, _ int) bool {
		return cursor == "" || l.cursor > cursor
	})
}

func (s *letterSource) GetResults(_ context.Context, cursor string, _ bool, limit int) (OneShotResults[letter], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.limits = append(s.limits, limit)
	if s.failOn > 0 && s.calls == s.failOn {
		return OneShotResults[letter]{}, fmt.Errorf("letter source unavailable")
	}

	results := s.after(cursor)
	if len(results) > limit {
		results = results[:limit]
	}

	res := OneShotResults[letter]{Results: results}
	if !s.noTotal {
		res.Total = lo.ToPtr(len(s.items))
	}

	return res, nil
}

func (s *letterSource) SortKey(l letter) string {
	return letterKey(l)
}

// streamingLetters serves fixed-size batches and reports HasMore.
func streamingLetters(batchSize int, items ...[]letter) StreamingSourceFunc[letter] {
	src := newLetterSource(items...)

	return StreamingSourceFunc[letter]{
		Fetch: func(_ context.Context, cursor string) (StreamingResults[letter], error) {
			rest := src.after(cursor)
			results := rest[:min(batchSize, len(rest))]

			next := cursor
			if len(results) > 0 {
				next = lo.LastOrEmpty(results).cursor
			}

			return StreamingResults[letter]{
				Results: results,
				HasMore: len(rest) > len(results),
				Total:   lo.ToPtr(len(src.items)),
				Cursor:  next,
			}, nil
		},
		Key: letterKey,
	}
}

const (
	cursorA    = "WyIyMDIzLTAxLTAxVDAwOjAwOjAwLjAwMFojQSJd"
	cursorAA   = "WyIyMDIzLTAxLTAxVDAwOjAwOjAwLjAwMFojQSIsIjIwMjMtMDEtMDFUMDA6MDA6MDAuMDAwWiNBQSJd"
	cursorAAA  = "WyIyMDIzLTAxLTAxVDAwOjAwOjAwLjAwMFojQSIsIjIwMjMtMDEtMDFUMDA6MDA6MDAuMDAwWiNBQUEiXQ=="
	cursorLast = "WyIyMDIzLTAxLTA1VDAwOjAwOjAwLjAwMFojRSIsIjIwMjMtMDEtMDhUMDA6MDA6MDAuMDAwWiNISCJd"
)

// letterPages is the merge of mockLetters and mockDoubleLetters split into
// pages of 3, 3, 5 and 5.
var (
	letterPageSizes = []int{3, 3, 5, 5}
	letterPages     = [][]string{
		{"A", "AA", "AAA"},
		{"B", "BB", "BBB"},
		{"C", "D", "E", "FF", "GG"},
		{"HH"},
	}
)
