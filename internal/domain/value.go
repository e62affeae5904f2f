package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
)

// ValueKind tags the representation held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindBinary
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBinary:
		return "binary"
	default:
		return "null"
	}
}

// Value is a single cell returned by the engine.
// Numbers keep their decimal text so DECIMAL columns are not rounded.
type Value struct {
	Kind  ValueKind
	Text  string // text, or the decimal form of a number
	Bytes []byte // binary payload
}

func NullValue() Value { return Value{Kind: KindNull} }

func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// NumberValue wraps a decimal literal; callers validate the digits.
func NumberValue(digits string) Value { return Value{Kind: KindNumber, Text: digits} }

func BinaryValue(b []byte) Value {
	return Value{Kind: KindBinary, Bytes: append([]byte(nil), b...)}
}

// IsNull reports whether the cell is SQL NULL.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value for display; NULL renders as "NULL".
func (v Value) String() string {
	switch v.Kind {
	case KindText, KindNumber:
		return v.Text
	case KindBinary:
		return "0x" + hex.EncodeToString(v.Bytes)
	default:
		return "NULL"
	}
}

// MarshalJSON encodes null as null, numbers as JSON numbers, text as strings and
// binary as base64 strings. A number whose text is not a JSON literal is encoded
// as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		if !json.Valid([]byte(v.Text)) {
			return json.Marshal(v.Text)
		}
		return []byte(v.Text), nil
	case KindBinary:
		return json.Marshal(base64.StdEncoding.EncodeToString(v.Bytes))
	default:
		return []byte("null"), nil
	}
}

// Row is one result row: column names paired with values, in engine order.
type Row struct {
	Columns []string
	Values  []Value
}

// Get returns the value of the named column.
func (r Row) Get(column string) (Value, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// Len returns the number of cells.
func (r Row) Len() int { return len(r.Columns) }

// MarshalJSON encodes the row as a JSON object keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
