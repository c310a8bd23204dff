package mergepager

import "container/heap"

// frontierEntry is the pending item of one source.
type frontierEntry[T Positioned] struct {
	item  T
	index int
	key   string
}

// frontier is a min-heap holding at most one entry per source.
type frontier[T Positioned] struct {
	entries []frontierEntry[T]
	opts    *Options
}

func newFrontier[T Positioned](opts *Options, capacity int) *frontier[T] {
	return &frontier[T]{
		entries: make([]frontierEntry[T], 0, capacity),
		opts:    opts,
	}
}

func (f *frontier[T]) Len() int { return len(f.entries) }

func (f *frontier[T]) Less(i, j int) bool {
	a, b := f.entries[i], f.entries[j]
	return f.opts.compareEntries(a.key, a.index, b.key, b.index) < 0
}

func (f *frontier[T]) Swap(i, j int) {
	f.entries[i], f.entries[j] = f.entries[j], f.entries[i]
}

func (f *frontier[T]) Push(x any) {
	f.entries = append(f.entries, x.(frontierEntry[T]))
}

func (f *frontier[T]) Pop() any {
	old := f.entries
	n := len(old)
	entry := old[n-1]
	old[n-1] = frontierEntry[T]{}
	f.entries = old[:n-1]
	return entry
}

func (f *frontier[T]) push(entry frontierEntry[T]) {
	heap.Push(f, entry)
}

func (f *frontier[T]) pop() frontierEntry[T] {
	return heap.Pop(f).(frontierEntry[T])
}
