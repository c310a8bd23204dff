package mergepager

import "errors"

var (
	// ErrNilOptions is returned when a pager is built without options.
	ErrNilOptions = errors.New("options are nil")

	// ErrNoComparator is returned when a pager is built without a comparator.
	ErrNoComparator = errors.New("comparator is required")

	// ErrIncompletePage means a source returned fewer items than asked for
	// while claiming to have more. Retrying will not help.
	ErrIncompletePage = errors.New("did not receive a full page of results but not all sources are complete")

	// ErrOutOfOrder means an item chosen by the merge was not at the head of
	// its source's buffer: the source is not sorted by its own sort key.
	ErrOutOfOrder = errors.New("results are not in the expected order")

	// ErrPagerBroken is returned by every call on a QueuePager after a fetch
	// failed mid-page. Build a new pager from the last cursor received.
	ErrPagerBroken = errors.New("pager failed earlier and must be rebuilt")
)
