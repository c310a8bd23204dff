package gormsource

import (
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

var _encoder = base64.RawURLEncoding

// KeysetCursor is the position of a row in a keyset-paginated query: one
// (column, value, operator) triple per ordering column, in ordering order.
//
// The last column must be unique, otherwise rows sharing a position are
// skipped.
type KeysetCursor struct {
	elements []CursorElement
}

// CursorElement is one (c, v, o) triple of a KeysetCursor.
type CursorElement struct {
	Column   string   `json:"c"`
	Value    any      `json:"v"`
	Operator Operator `json:"o"`
}

func NewKeysetCursor(elements ...CursorElement) *KeysetCursor {
	return &KeysetCursor{elements: elements}
}

// DecodeKeysetCursor parses the output of KeysetCursor.String. An empty
// string decodes to a nil cursor, i.e. the start of the data set.
func DecodeKeysetCursor(s string) (*KeysetCursor, error) {
	if len(s) == 0 {
		return nil, nil
	}

	data, err := _encoder.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded keyset cursor: %w", err)
	}

	var elements []CursorElement
	if err = json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal json encoded keyset cursor: %w", err)
	}

	return &KeysetCursor{elements: elements}, nil
}

// String - implements fmt.Stringer.
func (c *KeysetCursor) String() string {
	if c.IsEmpty() {
		return ""
	}

	data, err := json.Marshal(c.elements)
	if err != nil {
		panic(fmt.Errorf("cannot marshal keyset cursor: %w", err))
	}

	return _encoder.EncodeToString(data)
}

func (c *KeysetCursor) IsEmpty() bool {
	return c == nil || len(c.elements) == 0
}

func (c *KeysetCursor) Elements() []CursorElement {
	if c == nil {
		return nil
	}

	return c.elements
}

// Apply adds the condition selecting rows after the cursor to a gorm query.
func (c *KeysetCursor) Apply(db *gorm.DB) *gorm.DB {
	exp := c.toDNF().expression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// ToSQL renders the same condition as Apply for hand-written queries, using
// "?" placeholders:
//
//	query := fmt.Sprintf("SELECT * FROM users WHERE %s", sql)
func (c *KeysetCursor) ToSQL() (string, []driver.Value) {
	return c.toDNF().sql()
}

// Inverse flips every operator, turning "after" into "before".
func (c *KeysetCursor) Inverse() *KeysetCursor {
	if c.IsEmpty() {
		return c
	}

	return &KeysetCursor{
		elements: lo.Map(c.elements, func(e CursorElement, _ int) CursorElement {
			e.Operator = e.Operator.Inverse()
			return e
		}),
	}
}

func (c *KeysetCursor) toDNF() dnf {
	if c.IsEmpty() {
		return nil
	}

	form := make(dnf, 0, len(c.elements))
	for i, e := range c.elements {
		conj := make(conjunction, 0, i+1)
		for _, prev := range c.elements[:i] {
			conj = append(conj, condition{Column: prev.Column, Value: prev.Value, Operator: operatorEq})
		}
		conj = append(conj, condition(e))

		form = append(form, conj)
	}

	return form
}

// validate checks the cursor was taken from a query with the given ordering.
func (c *KeysetCursor) validate(orderings Orderings) error {
	if c.IsEmpty() {
		return nil
	}

	if len(c.elements) != len(orderings) {
		return fmt.Errorf("keyset cursor has %d columns, ordering has %d", len(c.elements), len(orderings))
	}

	for i, e := range c.elements {
		if e.Column != orderings[i].Column {
			return fmt.Errorf("unexpected keyset cursor column '%s'", e.Column)
		}

		if !e.Operator.Valid() {
			return fmt.Errorf("invalid keyset cursor operator '%s'", e.Operator)
		} else if e.Operator.ForDirection() != orderings[i].Direction {
			return fmt.Errorf("unexpected keyset cursor operator '%s'", e.Operator)
		}
	}

	return nil
}

// Getters maps every ordering column to a function reading that column from
// a model:
//
//	gormsource.Getters[User]{
//		"created_at": func(u User) any { return u.CreatedAt },
//		"id":         func(u User) any { return u.ID },
//	}
type Getters[M any] map[string]func(M) any

// keysetCursorFor builds the position of model within orderings.
func keysetCursorFor[M any](model M, orderings Orderings, getters Getters[M]) (*KeysetCursor, error) {
	elements := make([]CursorElement, 0, len(orderings))
	for _, orderBy := range orderings {
		getter, ok := getters[orderBy.Column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for column '%s' met in ordering", orderBy.Column)
		}

		elements = append(elements, CursorElement{
			Column:   orderBy.Column,
			Value:    getter(model),
			Operator: orderBy.Direction.ForOperator(),
		})
	}

	return &KeysetCursor{elements: elements}, nil
}
