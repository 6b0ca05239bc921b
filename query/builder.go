// Package query builds parameterized SQL for the users table. It never
// touches a database: every builder returns SQL text with placeholders plus
// the ordered values to bind, so statements can be asserted in isolation.
package query

import "strings"

// Table and column identifiers. These are the only strings that ever end up
// in SQL text; caller data always travels as a Value.
const (
	UsersTable  = "users"
	ColumnID    = "id"
	ColumnName  = "name"
	ColumnEmail = "email"
)

// Statement is SQL text plus the values for its placeholders, in order.
type Statement struct {
	SQL    string
	Values []Value
}

// Builder renders user statements for a single dialect.
type Builder struct {
	dialect Dialect
	table   string
}

// NewBuilder returns a Builder for the users table in dialect d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d, table: UsersTable}
}

// Dialect returns the dialect statements are rendered for.
func (b *Builder) Dialect() Dialect { return b.dialect }

// BuildInsert inserts a row with the given name and email. The id column is
// left to the storage auto-increment.
func (b *Builder) BuildInsert(name, email string) Statement {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.q(b.table))
	sb.WriteString(" (")
	sb.WriteString(b.q(ColumnName))
	sb.WriteString(", ")
	sb.WriteString(b.q(ColumnEmail))
	sb.WriteString(") VALUES (")
	sb.WriteString(b.dialect.Placeholder(1))
	sb.WriteString(", ")
	sb.WriteString(b.dialect.Placeholder(2))
	sb.WriteString(")")
	if b.dialect.Returning() {
		sb.WriteString(" RETURNING ")
		sb.WriteString(b.q(ColumnID))
	}
	return Statement{
		SQL:    sb.String(),
		Values: []Value{Text(name), Text(email)},
	}
}

// BuildSelectByID selects id, name and email of the row with the given id.
func (b *Builder) BuildSelectByID(id int64) Statement {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.q(ColumnID))
	sb.WriteString(", ")
	sb.WriteString(b.q(ColumnName))
	sb.WriteString(", ")
	sb.WriteString(b.q(ColumnEmail))
	sb.WriteString(" FROM ")
	sb.WriteString(b.q(b.table))
	b.whereID(&sb, 1)
	return Statement{SQL: sb.String(), Values: []Value{BigInt(id)}}
}

// BuildUpdateByID sets name and email on the row with the given id. The
// WHERE value comes after the SET values.
func (b *Builder) BuildUpdateByID(id int64, name, email string) Statement {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.q(b.table))
	sb.WriteString(" SET ")
	sb.WriteString(b.q(ColumnName))
	sb.WriteString(" = ")
	sb.WriteString(b.dialect.Placeholder(1))
	sb.WriteString(", ")
	sb.WriteString(b.q(ColumnEmail))
	sb.WriteString(" = ")
	sb.WriteString(b.dialect.Placeholder(2))
	b.whereID(&sb, 3)
	return Statement{
		SQL:    sb.String(),
		Values: []Value{Text(name), Text(email), BigInt(id)},
	}
}

// BuildDeleteByID deletes the row with the given id.
func (b *Builder) BuildDeleteByID(id int64) Statement {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.q(b.table))
	b.whereID(&sb, 1)
	return Statement{SQL: sb.String(), Values: []Value{BigInt(id)}}
}

func (b *Builder) whereID(sb *strings.Builder, index int) {
	sb.WriteString(" WHERE ")
	sb.WriteString(b.q(ColumnID))
	sb.WriteString(" = ")
	sb.WriteString(b.dialect.Placeholder(index))
}

func (b *Builder) q(identifier string) string { return b.dialect.Quote(identifier) }
