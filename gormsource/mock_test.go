package gormsource

import (
	"database/sql/driver"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type tUser struct {
	ID   uint
	Name string
}

func (tUser) TableName() string { return "users" }

func userSortKey(u tUser) string {
	return fmt.Sprintf("%020d", u.ID)
}

var userGetters = Getters[tUser]{
	"id":   func(u tUser) any { return u.ID },
	"name": func(u tUser) any { return u.Name },
}

// userRows builds fresh rows for every expectation; sqlmock rows are drained
// by the first query that reads them.
func userRows(values ...[]driver.Value) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name"})
	for _, v := range values {
		rows.AddRow(v...)
	}

	return rows
}

type mockDialect struct {
	name string
	open func(conn gorm.ConnPool) gorm.Dialector
}

var mockDialects = []mockDialect{
	{
		name: "mysql",
		open: func(conn gorm.ConnPool) gorm.Dialector {
			return mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true})
		},
	},
	{
		name: "postgres",
		open: func(conn gorm.ConnPool) gorm.Dialector {
			return postgres.New(postgres.Config{Conn: conn})
		},
	},
}

func (d mockDialect) newMock() (*gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(d.open(mockDB), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	return db.Debug(), mock, nil
}
