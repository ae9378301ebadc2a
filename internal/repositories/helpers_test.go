package repositories

import (
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func stringPtr(s string) *string {
	return &s
}

var fixedTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func countRows(n int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"count"}).AddRow(n)
}
