package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Skryldev/user-api/query"
)

// ErrUnboundValue is returned when a value's kind has no binding. Binding
// stops at the first such value so a statement never runs with a
// placeholder left empty.
var ErrUnboundValue = errors.New("db: value kind cannot be bound")

// BindArgs converts typed query values into driver arguments, in order.
func BindArgs(values []query.Value) ([]any, error) {
	args := make([]any, len(values))
	for i, v := range values {
		arg, err := bindValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: position %d, kind %s", err, i+1, v.Kind())
		}
		args[i] = arg
	}
	return args, nil
}

func bindValue(v query.Value) (any, error) {
	if v.IsNull() {
		return bindNull(v.Kind())
	}
	switch v.Kind() {
	case query.KindBool:
		return v.BoolValue(), nil
	case query.KindTinyInt:
		return int8(v.IntValue()), nil
	case query.KindSmallInt:
		return int16(v.IntValue()), nil
	case query.KindInt:
		return int32(v.IntValue()), nil
	case query.KindBigInt:
		return v.IntValue(), nil
	case query.KindFloat:
		return float32(v.FloatValue()), nil
	case query.KindDouble:
		return v.FloatValue(), nil
	case query.KindText:
		return v.TextValue(), nil
	case query.KindBytes:
		if v.BytesValue() == nil {
			return []byte{}, nil
		}
		return v.BytesValue(), nil
	}
	return nil, ErrUnboundValue
}

func bindNull(kind query.Kind) (any, error) {
	switch kind {
	case query.KindBool:
		return sql.NullBool{}, nil
	case query.KindTinyInt:
		return sql.Null[int8]{}, nil
	case query.KindSmallInt:
		return sql.NullInt16{}, nil
	case query.KindInt:
		return sql.NullInt32{}, nil
	case query.KindBigInt:
		return sql.NullInt64{}, nil
	case query.KindFloat, query.KindDouble:
		return sql.NullFloat64{}, nil
	case query.KindText:
		return sql.NullString{}, nil
	case query.KindBytes:
		return []byte(nil), nil
	}
	return nil, ErrUnboundValue
}

// ─────────────────────────────────────────────────────────────────────────────
// Statement execution
// ─────────────────────────────────────────────────────────────────────────────

// ExecStatement prepares st, binds its values and executes it. The prepared
// statement is closed before returning.
func (d *DB) ExecStatement(ctx context.Context, st query.Statement) (sql.Result, error) {
	args, err := BindArgs(st.Values)
	if err != nil {
		return nil, err
	}
	ctx, cancel := d.applyDefaultTimeout(ctx)
	defer cancel()

	stmt, err := d.Prepare(ctx, st.SQL)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.Exec(ctx, args...)
}

// QueryRowStatement prepares st, binds its values and runs it as a
// single-row query. The statement is closed when the row is scanned.
func (d *DB) QueryRowStatement(ctx context.Context, st query.Statement) *Row {
	args, err := BindArgs(st.Values)
	if err != nil {
		return &Row{err: err}
	}
	ctx, cancel := d.applyDefaultTimeout(ctx)

	stmt, err := d.Prepare(ctx, st.SQL)
	if err != nil {
		cancel()
		return &Row{err: err}
	}
	row := stmt.QueryRow(ctx, args...)
	row.cancel = func() {
		_ = stmt.Close()
		cancel()
	}
	return row
}
