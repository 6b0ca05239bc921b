package query

import (
	"strconv"
	"strings"
)

// Dialect defines how identifiers are quoted and how bind placeholders are
// written for one SQL flavour.
type Dialect interface {
	// Name matches the database/sql driver name the dialect belongs to.
	Name() string
	// Quote quotes a table or column identifier.
	Quote(identifier string) string
	// Placeholder returns the bind marker for the 1-based parameter index.
	Placeholder(index int) string
	// Returning reports whether inserts read the new id through
	// RETURNING instead of sql.Result.LastInsertId.
	Returning() bool
}

// SQLite is the dialect of mattn/go-sqlite3.
type SQLite struct{}

func (SQLite) Name() string                   { return "sqlite3" }
func (SQLite) Quote(identifier string) string { return quoteWith(identifier, '"') }
func (SQLite) Placeholder(_ int) string       { return "?" }
func (SQLite) Returning() bool                { return false }

// MySQL is the dialect of go-sql-driver/mysql.
type MySQL struct{}

func (MySQL) Name() string                   { return "mysql" }
func (MySQL) Quote(identifier string) string { return quoteWith(identifier, '`') }
func (MySQL) Placeholder(_ int) string       { return "?" }
func (MySQL) Returning() bool                { return false }

// Postgres is the dialect of lib/pq. lib/pq does not implement
// LastInsertId, so inserts use RETURNING.
type Postgres struct{}

func (Postgres) Name() string                   { return "postgres" }
func (Postgres) Quote(identifier string) string { return quoteWith(identifier, '"') }
func (Postgres) Placeholder(index int) string   { return "$" + strconv.Itoa(index) }
func (Postgres) Returning() bool                { return true }

// quoteWith wraps identifier in q, doubling any embedded q.
func quoteWith(identifier string, q byte) string {
	var b strings.Builder
	b.Grow(len(identifier) + 2)
	b.WriteByte(q)
	for i := 0; i < len(identifier); i++ {
		if identifier[i] == q {
			b.WriteByte(q)
		}
		b.WriteByte(identifier[i])
	}
	b.WriteByte(q)
	return b.String()
}

// DialectFor returns the built-in dialect for a driver name.
func DialectFor(driverName string) (Dialect, bool) {
	switch driverName {
	case "sqlite3", "sqlite":
		return SQLite{}, true
	case "mysql":
		return MySQL{}, true
	case "postgres", "postgresql":
		return Postgres{}, true
	}
	return nil, false
}
