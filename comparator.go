package mergepager

import "strings"

// Comparator orders two sort keys: negative if a comes first, positive if b
// does, zero if they tie. Ties between sources are broken by source index.
type Comparator func(a, b string) int

// Ascending compares keys byte-wise. ISO-8601 timestamps in a fixed format
// sort chronologically under it.
func Ascending(a, b string) int {
	return strings.Compare(a, b)
}

// Descending is Ascending reversed.
func Descending(a, b string) int {
	return strings.Compare(b, a)
}

// ReverseComparator flips the order of cmp.
func ReverseComparator(cmp Comparator) Comparator {
	return func(a, b string) int {
		return cmp(b, a)
	}
}

// ChainComparators applies each comparator in turn until one of them does not
// tie.
func ChainComparators(comparators ...Comparator) Comparator {
	return func(a, b string) int {
		for _, cmp := range comparators {
			if result := cmp(a, b); result != 0 {
				return result
			}
		}
		return 0
	}
}
