// Package fieldvalue decodes loosely typed form values sent by browser
// clients: numbers that may arrive as JSON numbers or strings, and flags that
// may arrive as booleans, numbers or checkbox strings.
package fieldvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotNumber  = errors.New("value is not a number")
	ErrNotInteger = errors.New("value is not an integer")
)

// Number keeps the raw text of a numeric field so that parsing, and the
// error reported for it, happens where the field is validated. It tracks
// whether the field was present in the payload at all.
type Number struct {
	raw string
	set bool
}

// NumberOf builds a present Number from its text form.
func NumberOf(raw string) Number {
	return Number{raw: strings.TrimSpace(raw), set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	n.set = true
	b = bytes.TrimSpace(b)

	switch {
	case bytes.Equal(b, []byte("null")):
		n.raw = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.raw = strings.TrimSpace(s)
	default:
		n.raw = string(b)
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether the field appeared in the payload, even as null.
func (n Number) IsSet() bool { return n.set }

// IsEmpty reports whether the field is absent, null or blank.
func (n Number) IsEmpty() bool { return !n.set || n.raw == "" }

func (n Number) Raw() string { return n.raw }

// Decimal parses the value. Empty values return ErrNotNumber.
func (n Number) Decimal() (decimal.Decimal, error) {
	if n.IsEmpty() {
		return decimal.Zero, ErrNotNumber
	}
	d, err := decimal.NewFromString(n.raw)
	if err != nil {
		return decimal.Zero, ErrNotNumber
	}
	return d, nil
}

// NullDecimal parses the value, mapping empty to an invalid NullDecimal.
func (n Number) NullDecimal() (decimal.NullDecimal, error) {
	if n.IsEmpty() {
		return decimal.NullDecimal{}, nil
	}
	d, err := n.Decimal()
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// IntPtr parses an integral value ("120" or "120.0"), mapping empty to nil.
// Values outside the int64 range are rejected.
func (n Number) IntPtr() (*int, error) {
	if n.IsEmpty() {
		return nil, nil
	}
	d, err := n.Decimal()
	if err != nil {
		return nil, err
	}
	if !IsInt64(d) {
		return nil, ErrNotInteger
	}
	v := int(d.IntPart())
	return &v, nil
}

// IsInt64 reports whether d is integral and representable as an int64.
func IsInt64(d decimal.Decimal) bool {
	return d.IsInteger() && d.Equal(decimal.NewFromInt(d.IntPart()))
}
