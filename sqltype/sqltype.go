// Package sqltype bridges Go values and their wire representation.
//
// A SqlType[T] knows how to encode a T into a driver.Value, how to decode a
// scanned value back into a T and how to read a T from text. New types can be
// derived from existing ones with Transform, which keeps the wire code and
// name of the underlying type.
package sqltype

import (
	"database/sql/driver"
	"fmt"

	"github.com/zoobzio/sqltree/expr"
)

// Code identifies the wire type of a parameter.
type Code = expr.TypeCode

// Wire type codes.
const (
	CodeBoolean   Code = "BOOLEAN"
	CodeInteger   Code = "INTEGER"
	CodeBigint    Code = "BIGINT"
	CodeDouble    Code = "DOUBLE"
	CodeDecimal   Code = "DECIMAL"
	CodeVarchar   Code = "VARCHAR"
	CodeText      Code = "LONGVARCHAR"
	CodeBinary    Code = "VARBINARY"
	CodeTimestamp Code = "TIMESTAMP"
	CodeDate      Code = "DATE"
	CodeOther     Code = "OTHER"
	CodeArray     Code = "ARRAY"
)

// Type is the untyped view of a SqlType, as stored on expression nodes.
type Type = expr.Type

// SqlType binds a Go type T to a wire type.
type SqlType[T any] struct {
	name   string
	code   Code
	encode func(T) (driver.Value, error)
	decode func(any) (T, error)
	parse  func(string) (T, error)
}

// New creates a SqlType from its conversion functions.
// parse may be nil, in which case Parse always fails.
func New[T any](name string, code Code, encode func(T) (driver.Value, error), decode func(any) (T, error), parse func(string) (T, error)) SqlType[T] {
	return SqlType[T]{name: name, code: code, encode: encode, decode: decode, parse: parse}
}

// TypeName returns the SQL name of the type.
func (t SqlType[T]) TypeName() string { return t.name }

// TypeCode returns the wire type code.
func (t SqlType[T]) TypeCode() Code { return t.code }

// EncodeValue converts a typed value into its wire form.
func (t SqlType[T]) EncodeValue(v T) (driver.Value, error) {
	return t.encode(v)
}

// Encode converts v into its wire form. v must hold a T or be nil.
func (t SqlType[T]) Encode(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("%s: cannot encode %T", t.name, v)
	}
	return t.encode(typed)
}

// DecodeValue converts a scanned value into a T.
func (t SqlType[T]) DecodeValue(src any) (T, error) {
	return t.decode(src)
}

// Decode converts a scanned value, returning it as any.
func (t SqlType[T]) Decode(src any) (any, error) {
	return t.decode(src)
}

// ParseValue reads a T from its text form.
func (t SqlType[T]) ParseValue(text string) (T, error) {
	if t.parse == nil {
		var zero T
		return zero, fmt.Errorf("%s: text parsing is not supported", t.name)
	}
	return t.parse(text)
}

// Parse reads a value from text, returning it as any.
func (t SqlType[T]) Parse(text string) (any, error) {
	return t.ParseValue(text)
}

// Bind wraps v as an argument expression of this type.
func (t SqlType[T]) Bind(v T) *expr.Argument {
	return &expr.Argument{Value: v, Type: t}
}

// BindNull creates a NULL argument of this type.
func (t SqlType[T]) BindNull() *expr.Argument {
	return &expr.Argument{Value: nil, Type: t}
}

// Transform derives a SqlType[R] from base. fromBase and toBase must form an
// isomorphism on the values the caller uses; this is not checked. The derived
// type keeps the name and wire code of base.
func Transform[T, R any](base SqlType[T], fromBase func(T) R, toBase func(R) T) SqlType[R] {
	var parse func(string) (R, error)
	if base.parse != nil {
		parse = func(text string) (R, error) {
			v, err := base.parse(text)
			if err != nil {
				var zero R
				return zero, err
			}
			return fromBase(v), nil
		}
	}
	return SqlType[R]{
		name: base.name,
		code: base.code,
		encode: func(v R) (driver.Value, error) {
			return base.encode(toBase(v))
		},
		decode: func(src any) (R, error) {
			v, err := base.decode(src)
			if err != nil {
				var zero R
				return zero, err
			}
			return fromBase(v), nil
		},
		parse: parse,
	}
}
