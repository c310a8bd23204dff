package gormsource

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	condition struct {
		Column   string
		Value    any
		Operator Operator
	}

	conjunction []condition

	// dnf is a keyset position expanded into disjunctive normal form:
	//
	//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ... OR (C1 = V1 AND ... AND Cn On Vn)
	//
	// which selects exactly the rows that come after the position in the
	// ordering the position was taken from.
	dnf []conjunction
)

func (c condition) expression() clause.Expression {
	sql, arg := c.sql()

	return clause.Expr{
		SQL:  sql,
		Vars: []any{arg},
	}
}

func (c condition) sql() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), parseAnyValue(c.Value)
}

// parseAnyValue restores time values, which survive a JSON round trip only
// as RFC 3339 strings.
func parseAnyValue(v any) any {
	parseOrKeep := func(b []byte) any {
		var t time.Time
		if err := t.UnmarshalText(b); err == nil {
			return t
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return parseOrKeep([]byte(vt))
	case []byte:
		return parseOrKeep(vt)
	default:
		return v
	}
}

func (c conjunction) expression() clause.Expression {
	switch len(c) {
	case 0:
		return nil
	case 1:
		return c[0].expression()
	default:
		return clause.And(lo.Map(c, func(cond condition, _ int) clause.Expression {
			return cond.expression()
		})...)
	}
}

func (c conjunction) sql() (string, []driver.Value) {
	if len(c) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(c))
	values := make([]driver.Value, 0, len(c))
	for _, cond := range c {
		sql, value := cond.sql()
		clauses = append(clauses, sql)
		values = append(values, value)
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, " AND ")), values
}

func (d dnf) expression() clause.Expression {
	expressions := lo.FilterMap(d, func(c conjunction, _ int) (clause.Expression, bool) {
		exp := c.expression()
		return exp, exp != nil
	})

	switch len(expressions) {
	case 0:
		return nil
	case 1:
		return expressions[0]
	default:
		return clause.Or(expressions...)
	}
}

// sql renders the condition for hand-written queries. An empty form renders
// as TRUE.
func (d dnf) sql() (string, []driver.Value) {
	clauses := make([]string, 0, len(d))
	values := make([]driver.Value, 0, len(d))

	for _, c := range d {
		sql, vs := c.sql()
		if sql == "" {
			continue
		}

		clauses = append(clauses, sql)
		values = append(values, vs...)
	}

	if len(clauses) == 0 {
		return "TRUE", nil
	}

	return fmt.Sprintf("(%s)", strings.Join(clauses, " OR ")), values
}
