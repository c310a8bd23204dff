package mergepager

import "github.com/rs/zerolog"

// Options configures every pager. Build it with NewOptions and the With*
// methods; all of them accept a nil receiver.
type Options struct {
	comparator  Comparator
	pageSize    int
	cursor      string
	minPageSize int
	fetchSize   int
	logger      *zerolog.Logger
}

func NewOptions(cmp Comparator) *Options {
	return new(Options).WithComparator(cmp)
}

// WithComparator sets the order in which sort keys are merged.
func (o *Options) WithComparator(cmp Comparator) *Options {
	if o == nil {
		o = new(Options)
	}

	o.comparator = cmp

	return o
}

// WithPageSize sets the page size of OneShotPage. Non-positive values fall
// back to DefaultPageSize.
func (o *Options) WithPageSize(size int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.pageSize = NormalizePageSize(size)

	return o
}

// WithCursor sets the composite cursor to start after. The pagers decode it
// once; an empty or malformed cursor starts every source from the beginning.
func (o *Options) WithCursor(cursor string) *Options {
	if o == nil {
		o = new(Options)
	}

	o.cursor = cursor

	return o
}

// WithMinPageSize sets the smallest fetch StatefulPager issues to a source.
func (o *Options) WithMinPageSize(size int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.minPageSize = max(size, 0)

	return o
}

// WithFetchSize sets the batch size used when a OneShotSource is read through
// an Adapter. Only used by sources that are not already wrapped with OneShot.
func (o *Options) WithFetchSize(size int) *Options {
	if o == nil {
		o = new(Options)
	}

	o.fetchSize = NormalizePageSize(size)

	return o
}

// WithLogger sets the logger used for fetch and merge diagnostics.
func (o *Options) WithLogger(logger zerolog.Logger) *Options {
	if o == nil {
		o = new(Options)
	}

	o.logger = &logger

	return o
}

// GetPageSize returns the page size, DefaultPageSize when unset.
func (o *Options) GetPageSize() int {
	if o == nil {
		return DefaultPageSize
	}

	return NormalizePageSize(o.pageSize)
}

// GetCursor returns the starting cursor as-is.
func (o *Options) GetCursor() string {
	if o == nil {
		return ""
	}

	return o.cursor
}

// GetMinPageSize returns the minimum fetch size, 0 when unset.
func (o *Options) GetMinPageSize() int {
	if o == nil {
		return 0
	}

	return o.minPageSize
}

// GetFetchSize returns the adapter batch size, DefaultPageSize when unset.
func (o *Options) GetFetchSize() int {
	if o == nil {
		return DefaultPageSize
	}

	return NormalizePageSize(o.fetchSize)
}

func (o *Options) getLogger() zerolog.Logger {
	if o == nil || o.logger == nil {
		return zerolog.Nop()
	}

	return *o.logger
}

func (o *Options) validate() error {
	if o == nil {
		return ErrNilOptions
	}

	if o.comparator == nil {
		return ErrNoComparator
	}

	return nil
}

// compareEntries orders merge candidates by key, then by source index.
func (o *Options) compareEntries(keyA string, indexA int, keyB string, indexB int) int {
	if c := o.comparator(keyA, keyB); c != 0 {
		return c
	}

	return indexA - indexB
}
