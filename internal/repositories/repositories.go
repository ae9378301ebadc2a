// Package repositories holds the SQL access for every table. Repositories
// return database.DatabaseError values and leave their mapping to services.
package repositories

import "github.com/jackc/pgx/v5"

var errNoRows = pgx.ErrNoRows
