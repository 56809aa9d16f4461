// Package reconcile joins the output and performance records of a source
// workbook onto the rows of a payroll summary sheet.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/klytics/gy/internal/sheet"
)

// ErrInvalidMode is returned by ParseMode for unknown row-index modes.
var ErrInvalidMode = errors.New("invalid mode")

// Fixed business schema.
const (
	sourceIDColumn = 'A' // employee id in output and performance sheets
	scoreColumn    = 'Q' // raw performance score
	targetIDColumn = 'C' // employee id or header marker in the summary sheet
	bonusColumn    = 'E'
	scoreOutColumn = 'F'
)

// Mode selects how a record's cells are addressed.
type Mode string

const (
	// ModeLiteral addresses the record at position i of any sequence as
	// sheet row i+2, whatever row it was read from. Sheets with gaps between
	// data rows therefore read and write shifted cells.
	ModeLiteral Mode = "literal"
	// ModeCorrected addresses every record by its own source row.
	ModeCorrected Mode = "corrected"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLiteral, ModeCorrected:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q (must be literal or corrected)", ErrInvalidMode, s)
}

// Options configures an Engine.
type Options struct {
	Mode Mode
	// BonusFactor multiplies the monthly output value.
	BonusFactor decimal.Decimal
	// Precision is the number of fractional digits kept in a bonus.
	Precision int32
	// HeaderMarker in the id column marks a repeated header row.
	HeaderMarker string
	// LabelSuffix is appended to the month label on header rows.
	LabelSuffix string
}

// DefaultOptions returns the settings of the standard payroll layout.
func DefaultOptions() Options {
	return Options{
		Mode:         ModeLiteral,
		BonusFactor:  decimal.RequireFromString("0.2"),
		Precision:    4,
		HeaderMarker: "工号",
		LabelSuffix:  "绩效",
	}
}

// Summary counts what a reconciliation did.
type Summary struct {
	Rows      int      `json:"rows"`
	Headers   int      `json:"headers"`
	Bonuses   int      `json:"bonuses"`
	Scores    int      `json:"scores"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// Engine computes bonuses and performance scores for summary rows.
type Engine struct {
	opts Options
}

// New creates an Engine. An empty Mode, HeaderMarker or LabelSuffix and a
// zero BonusFactor fall back to DefaultOptions; Precision is used as given.
// A zero factor counts as unset.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Mode == "" {
		opts.Mode = def.Mode
	}
	if opts.BonusFactor.IsZero() {
		opts.BonusFactor = def.BonusFactor
	}
	if opts.HeaderMarker == "" {
		opts.HeaderMarker = def.HeaderMarker
	}
	if opts.LabelSuffix == "" {
		opts.LabelSuffix = def.LabelSuffix
	}
	return &Engine{opts: opts}
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Reconcile fills the bonus and score columns of targets for month.
//
// For each target row the id in column C is looked up in outputs and
// performances; the first record with the same id in column A wins. A row
// whose id equals the header marker gets the month label in column E
// instead. Rows with an empty or unmatched id keep their previous values.
// The input records are not modified.
func (e *Engine) Reconcile(outputs, performances, targets []sheet.Record, month Month) ([]sheet.Record, Summary) {
	result := make([]sheet.Record, len(targets))
	sum := Summary{Rows: len(targets)}

	for i, target := range targets {
		row := target.Clone()
		r := e.rowOf(target, i)

		id := identifier(cell(row, targetIDColumn, r))
		switch {
		case id == "":
		case id == e.opts.HeaderMarker:
			row.Set(sheet.At(bonusColumn, r), month.Label()+e.opts.LabelSuffix)
			sum.Headers++
		default:
			bonus, okBonus := e.bonus(outputs, id, month)
			if okBonus {
				row.Set(sheet.At(bonusColumn, r), bonus)
				sum.Bonuses++
			}
			score, okScore := e.score(performances, id)
			if okScore {
				row.Set(sheet.At(scoreOutColumn, r), score)
				sum.Scores++
			}
			if !okBonus && !okScore {
				sum.Unmatched = append(sum.Unmatched, id)
			}
		}

		result[i] = row
	}

	return result, sum
}

func (e *Engine) rowOf(rec sheet.Record, pos int) int {
	if e.opts.Mode == ModeCorrected {
		return rec.Row
	}
	return pos + 2
}

// find returns the first record whose id column holds id, along with the
// row used to address it.
func (e *Engine) find(records []sheet.Record, id string) (sheet.Record, int, bool) {
	for j, rec := range records {
		r := e.rowOf(rec, j)
		if identifier(cell(rec, sourceIDColumn, r)) == id {
			return rec, r, true
		}
	}
	return sheet.Record{}, 0, false
}

func (e *Engine) bonus(outputs []sheet.Record, id string, month Month) (float64, bool) {
	rec, r, ok := e.find(outputs, id)
	if !ok {
		return 0, false
	}
	// Missing or non-numeric output counts as zero.
	units, _ := number(cell(rec, month.Column, r))
	v, _ := units.Mul(e.opts.BonusFactor).Truncate(e.opts.Precision).Float64()
	return v, true
}

func (e *Engine) score(performances []sheet.Record, id string) (float64, bool) {
	rec, r, ok := e.find(performances, id)
	if !ok {
		return 0, false
	}
	raw, ok := number(cell(rec, scoreColumn, r))
	if !ok {
		return 0, false
	}
	v, _ := strip(raw).Float64()
	return v, true
}

func cell(rec sheet.Record, col byte, row int) any {
	v, _ := rec.Get(sheet.At(col, row))
	return v
}
