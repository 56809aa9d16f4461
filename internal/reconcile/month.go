package reconcile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMonth is returned by ParseMonth for anything outside 1-12.
var ErrInvalidMonth = errors.New("invalid month")

// firstMonthColumn is the output-sheet column holding January.
const firstMonthColumn = 'C'

// Month is a reporting month together with the output-sheet column that
// holds its values.
type Month struct {
	Number int
	Column byte
}

// MonthOf returns the selection for month number n (1-12).
func MonthOf(n int) (Month, error) {
	if n < 1 || n > 12 {
		return Month{}, fmt.Errorf("%w: %d", ErrInvalidMonth, n)
	}
	return Month{Number: n, Column: byte(firstMonthColumn + n - 1)}, nil
}

// Months returns the twelve selections, C:1月 through N:12月.
func Months() []Month {
	months := make([]Month, 12)
	for i := range months {
		months[i] = Month{Number: i + 1, Column: byte(firstMonthColumn + i)}
	}
	return months
}

// CurrentMonth returns the selection for the month of t.
func CurrentMonth(t time.Time) Month {
	m, _ := MonthOf(int(t.Month()))
	return m
}

// Label is the display name, e.g. "1月".
func (m Month) Label() string {
	return strconv.Itoa(m.Number) + "月"
}

// String renders the selection as "C:1月".
func (m Month) String() string {
	return string(m.Column) + ":" + m.Label()
}

// ParseMonth accepts "C:1月", "1月" or "1".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	col, label, hasCol := strings.Cut(s, ":")
	if !hasCol {
		label = s
	}

	n, err := strconv.Atoi(strings.TrimSuffix(label, "月"))
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	m, err := MonthOf(n)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	if hasCol && col != string(m.Column) {
		return Month{}, fmt.Errorf("%w: %q (column for %s is %c)", ErrInvalidMonth, s, m.Label(), m.Column)
	}
	return m, nil
}
