package gormsource

import "fmt"

// Operator is a comparison operator of a keyset condition.
type Operator string

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"

	// operatorEq only appears in expanded keyset conditions, never in a
	// position.
	operatorEq Operator = "="
)

func (o Operator) Valid() bool {
	return o == OperatorGT || o == OperatorLT
}

// ForDirection returns the ordering direction the operator pages along.
func (o Operator) ForDirection() Direction {
	switch o {
	case OperatorGT:
		return DirectionASC
	case OperatorLT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to direction", o))
	}
}

// Inverse swaps > and <.
func (o Operator) Inverse() Operator {
	switch o {
	case OperatorGT:
		return OperatorLT
	case OperatorLT:
		return OperatorGT
	default:
		return o
	}
}
