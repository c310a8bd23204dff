package mergepager

import "github.com/samber/lo"

// aggregateTotal sums the latest total reported by every source. The sum is
// known only once every source has reported one. A source without a total
// poisons the sum for the rest of the pager's life.
type aggregateTotal struct {
	poisoned bool
	observed []bool
	totals   []int
}

func newAggregateTotal(sources int) aggregateTotal {
	return aggregateTotal{
		observed: make([]bool, sources),
		totals:   make([]int, sources),
	}
}

// observe records the total reported by source i after a fetch.
func (a *aggregateTotal) observe(i int, total *int) {
	if a.poisoned {
		return
	}

	if total == nil {
		a.poisoned = true
		a.totals = nil
		return
	}

	a.totals[i] = *total
	a.observed[i] = true
}

// value returns nil unless every source reported a total. Zero sources sum
// to 0.
func (a *aggregateTotal) value() *int {
	if a.poisoned || lo.Contains(a.observed, false) {
		return nil
	}

	return lo.ToPtr(lo.Sum(a.totals))
}
