package gormsource

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

// ColumnMapping maps public sort aliases to column names, so API callers never
// name columns directly.
type ColumnMapping map[string]string

// ParseSort builds Orderings from strings of the form "alias asc|desc".
// Unknown aliases are rejected with the closest known alias as a hint.
func ParseSort(sorts []string, mapping ColumnMapping) (Orderings, error) {
	ret := make(Orderings, 0, len(sorts))
	aliases := lo.Keys(mapping)

	for _, s := range sorts {
		parts := strings.Fields(s)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", s)
		}

		column, ok := mapping[parts[0]]
		if !ok || column == "" {
			return nil, fmt.Errorf("unknown sort alias '%s', closest: '%s'", parts[0], closestAlias(parts[0], aliases))
		}

		orderBy := OrderBy{Column: column, Direction: Direction(strings.ToUpper(parts[1]))}
		if err := orderBy.validate(); err != nil {
			return nil, err
		}

		ret = append(ret, orderBy)
	}

	return ret, nil
}

func closestAlias(input string, aliases []string) string {
	minDist := math.MaxInt
	closest := ""

	for _, alias := range aliases {
		// Ties resolve alphabetically; map order is random.
		dist := levenshtein([]rune(alias), []rune(input))
		if dist < minDist || (dist == minDist && alias < closest) {
			minDist = dist
			closest = alias
		}
	}

	return closest
}

// levenshtein is the edit distance between a and b.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := lo.Ternary(a[i-1] == b[j-1], 0, 1)
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
