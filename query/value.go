package query

import (
	"fmt"
	"strconv"
)

// ─────────────────────────────────────────────────────────────────────────────
// Kind
// ─────────────────────────────────────────────────────────────────────────────

// Kind identifies the scalar type carried by a Value. The set is closed:
// every Kind below must be handled by the binder in package db.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindText
	KindBytes
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindBool:     "bool",
	KindTinyInt:  "tinyint",
	KindSmallInt: "smallint",
	KindInt:      "int",
	KindBigInt:   "bigint",
	KindFloat:    "float",
	KindDouble:   "double",
	KindText:     "text",
	KindBytes:    "bytes",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k > KindInvalid && int(k) < len(kindNames) }

// ─────────────────────────────────────────────────────────────────────────────
// Value — a tagged bind value
// ─────────────────────────────────────────────────────────────────────────────

// Value is a single bind parameter: a Kind plus its payload. A null Value
// still carries the Kind so the driver receives a typed NULL.
//
// Construct values with the helpers below; the zero Value has KindInvalid and
// is rejected by the binder.
type Value struct {
	kind  Kind
	null  bool
	b     bool
	i     int64
	f     float64
	s     string
	bytes []byte
}

func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func TinyInt(v int8) Value   { return Value{kind: KindTinyInt, i: int64(v)} }
func SmallInt(v int16) Value { return Value{kind: KindSmallInt, i: int64(v)} }
func Int(v int32) Value      { return Value{kind: KindInt, i: int64(v)} }
func BigInt(v int64) Value   { return Value{kind: KindBigInt, i: v} }
func Float(v float32) Value  { return Value{kind: KindFloat, f: float64(v)} }
func Double(v float64) Value { return Value{kind: KindDouble, f: v} }
func Text(v string) Value    { return Value{kind: KindText, s: v} }
func Bytes(v []byte) Value   { return Value{kind: KindBytes, bytes: v} }

// Null returns a typed NULL of the given kind.
func Null(kind Kind) Value { return Value{kind: kind, null: true} }

func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsNull() bool        { return v.null }
func (v Value) BoolValue() bool     { return v.b }
func (v Value) IntValue() int64     { return v.i }
func (v Value) FloatValue() float64 { return v.f }
func (v Value) TextValue() string   { return v.s }
func (v Value) BytesValue() []byte  { return v.bytes }

// String renders the value for logs. Byte payloads are summarised by length.
func (v Value) String() string {
	if v.null {
		return "NULL::" + v.kind.String()
	}
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTinyInt, KindSmallInt, KindInt, KindBigInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat, KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("bytes[%d]", len(v.bytes))
	}
	return v.kind.String()
}
