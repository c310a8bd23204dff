package gormsource

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_KeysetSource_GetResults(t *testing.T) {
	byID := Orderings{{Column: "id", Direction: DirectionASC}}
	byNameDesc := Orderings{{Column: "name", Direction: DirectionDESC}, {Column: "id", Direction: DirectionDESC}}

	tests := []struct {
		name          string
		orderings     Orderings
		filtered      bool
		cursor        string
		forward       bool
		limit         int
		expectedQuery string
		expectedArgs  []driver.Value
		rows          [][]driver.Value
		wantIDs       []uint
	}{
		{
			name:          "first page",
			orderings:     byID,
			forward:       true,
			limit:         2,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] ORDER BY id ASC LIMIT 2$",
			rows:          [][]driver.Value{{1, "ann"}, {2, "bob"}},
			wantIDs:       []uint{1, 2},
		},
		{
			name:          "after position",
			orderings:     byID,
			cursor:        NewKeysetCursor(CursorElement{Column: "id", Value: 2, Operator: OperatorGT}).String(),
			forward:       true,
			limit:         2,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE id > (?:\\$\\d|\\?) ORDER BY id ASC LIMIT 2$",
			expectedArgs:  []driver.Value{float64(2)},
			rows:          [][]driver.Value{{3, "cid"}},
			wantIDs:       []uint{3},
		},
		{
			name:          "backward from position",
			orderings:     byID,
			cursor:        NewKeysetCursor(CursorElement{Column: "id", Value: 5, Operator: OperatorGT}).String(),
			forward:       false,
			limit:         2,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE id < (?:\\$\\d|\\?) ORDER BY id DESC LIMIT 2$",
			expectedArgs:  []driver.Value{float64(5)},
			rows:          [][]driver.Value{{4, "dan"}, {3, "cid"}},
			wantIDs:       []uint{4, 3},
		},
		{
			name:      "two columns over a filtered query",
			orderings: byNameDesc,
			filtered:  true,
			cursor: NewKeysetCursor(
				CursorElement{Column: "name", Value: "bob", Operator: OperatorLT},
				CursorElement{Column: "id", Value: 7, Operator: OperatorLT},
			).String(),
			forward:       true,
			limit:         3,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] WHERE name <> [`'\"]lol[`'\"] AND \\(name < (?:\\$\\d|\\?) OR \\(name = (?:\\$\\d|\\?) AND id < (?:\\$\\d|\\?)\\)\\) ORDER BY name DESC, id DESC LIMIT 3$",
			expectedArgs:  []driver.Value{"bob", "bob", float64(7)},
			rows:          [][]driver.Value{{5, "bob"}, {9, "ann"}},
			wantIDs:       []uint{5, 9},
		},
		{
			name:          "default limit",
			orderings:     byID,
			forward:       true,
			limit:         0,
			expectedQuery: "^SELECT \\* FROM [`'\"]users[`'\"] ORDER BY id ASC LIMIT 10$",
			wantIDs:       []uint{},
		},
	}

	for _, dialect := range mockDialects {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s %s", dialect.name, tt.name), func(t *testing.T) {
				db, dbMock, err := dialect.newMock()
				require.NoError(t, err)

				expectation := dbMock.ExpectQuery(tt.expectedQuery)
				if len(tt.expectedArgs) > 0 {
					expectation = expectation.WithArgs(tt.expectedArgs...)
				}
				expectation.WillReturnRows(userRows(tt.rows...))

				if tt.filtered {
					db = db.Where("name <> 'lol'")
				}
				src := NewKeysetSource(db, userSortKey, userGetters, tt.orderings...)

				res, err := src.GetResults(context.Background(), tt.cursor, tt.forward, tt.limit)
				require.NoError(t, err)
				require.Nil(t, res.Total)

				gotIDs := make([]uint, 0, len(res.Results))
				for _, row := range res.Results {
					gotIDs = append(gotIDs, row.Model.ID)

					// Positions always point forward, also for backward reads.
					position, err := DecodeKeysetCursor(row.Position())
					require.NoError(t, err)
					require.NoError(t, position.validate(tt.orderings))
					require.Equal(t, float64(row.Model.ID), position.Elements()[len(tt.orderings)-1].Value)
				}
				require.Equal(t, tt.wantIDs, gotIDs)

				assert.NoError(t, dbMock.ExpectationsWereMet())
			})
		}
	}
}

func Test_KeysetSource_WithCount(t *testing.T) {
	for _, dialect := range mockDialects {
		t.Run(dialect.name, func(t *testing.T) {
			db, dbMock, err := dialect.newMock()
			require.NoError(t, err)

			dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]users[`'\"] ORDER BY id ASC LIMIT 1$").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "ann"))
			dbMock.ExpectQuery("^SELECT count\\(\\*\\) FROM [`'\"]users[`'\"]$").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

			src := NewKeysetSource(db, userSortKey, userGetters, OrderBy{Column: "id", Direction: DirectionASC}).WithCount()

			res, err := src.GetResults(context.Background(), "", true, 1)
			require.NoError(t, err)
			require.Len(t, res.Results, 1)
			require.NotNil(t, res.Total)
			require.Equal(t, 42, *res.Total)
			require.Equal(t, userSortKey(res.Results[0].Model), src.SortKey(res.Results[0]))

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}

func Test_KeysetSource_Errors(t *testing.T) {
	byID := []OrderBy{{Column: "id", Direction: DirectionASC}}

	for _, dialect := range mockDialects {
		t.Run(dialect.name, func(t *testing.T) {
			db, dbMock, err := dialect.newMock()
			require.NoError(t, err)
			src := NewKeysetSource(db, userSortKey, userGetters, byID...)

			_, err = src.GetResults(context.Background(), "%%%", true, 2)
			require.ErrorIs(t, err, ErrInvalidPosition)

			foreign := NewKeysetCursor(CursorElement{Column: "name", Value: "bob", Operator: OperatorGT}).String()
			_, err = src.GetResults(context.Background(), foreign, true, 2)
			require.ErrorIs(t, err, ErrInvalidPosition)

			_, err = NewKeysetSource(db, userSortKey, userGetters).GetResults(context.Background(), "", true, 2)
			require.Error(t, err)

			noGetter := NewKeysetSource(db, userSortKey, Getters[tUser]{}, byID...)
			dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]users[`'\"] ORDER BY id ASC LIMIT 2$").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "ann"))
			_, err = noGetter.GetResults(context.Background(), "", true, 2)
			require.Error(t, err)

			dbMock.ExpectQuery("^SELECT \\* FROM [`'\"]users[`'\"] ORDER BY id ASC LIMIT 2$").
				WillReturnError(fmt.Errorf("connection reset"))
			_, err = src.GetResults(context.Background(), "", true, 2)
			require.ErrorContains(t, err, "connection reset")

			assert.NoError(t, dbMock.ExpectationsWereMet())
		})
	}
}
