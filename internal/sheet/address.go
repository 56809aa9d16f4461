// Package sheet models a worksheet as a sparse map of cell addresses and
// converts it into ordered row records.
//
// Only one layout is supported: single-letter columns A-Z and rows 1-99.
// Anything outside that range is ignored by SortAddresses and Extract.
package sheet

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// ErrInvalidAddress is returned when a cell reference is not a single
// uppercase letter followed by a one- or two-digit row number.
var ErrInvalidAddress = errors.New("invalid cell address")

// HeaderRow is the row holding column titles. It is never extracted.
const HeaderRow = 1

// Address identifies one cell by column letter and 1-based row number.
type Address struct {
	Col byte
	Row int
}

// At returns the address of column col in row row.
func At(col byte, row int) Address {
	return Address{Col: col, Row: row}
}

// ParseAddress parses references like "A1" or "Q42".
// Rows of 100 and above, multi-letter columns, row 0 and zero-padded rows
// are rejected.
func ParseAddress(s string) (Address, error) {
	if len(s) < 2 || len(s) > 3 {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	col := s[0]
	if col < 'A' || col > 'Z' {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	digits := s[1:]
	if digits[0] == '0' {
		return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
	}
	row, _ := strconv.Atoi(digits)
	return Address{Col: col, Row: row}, nil
}

// String returns the A1-style reference.
func (a Address) String() string {
	return string(a.Col) + strconv.Itoa(a.Row)
}

// MarshalText lets addresses key JSON objects.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// SortAddresses returns the valid addresses of raw in row order, and in
// column order within a row.
//
// The ordering is built from two stable passes: first by column, then by
// row. Keys that fail ParseAddress are dropped.
func SortAddresses(raw Raw) []Address {
	addrs := make([]Address, 0, len(raw))
	for key := range raw {
		a, err := ParseAddress(key)
		if err != nil {
			continue
		}
		addrs = append(addrs, a)
	}

	slices.SortStableFunc(addrs, func(a, b Address) int {
		return int(a.Col) - int(b.Col)
	})
	slices.SortStableFunc(addrs, func(a, b Address) int {
		return a.Row - b.Row
	})

	return addrs
}
