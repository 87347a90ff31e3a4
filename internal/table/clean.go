package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder marks a missing price in the published tables
const Placeholder = "-"

// ParseError reports a cell that could not be converted.
// Row is the zero-based data row of the published table, header excluded.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var dateLayouts = []string{
	DateLayout,
	"02. January 2006",
	"2. January 2006",
	"January 2, 2006",
	"02.01.2006",
	"2006-01-02 15:04:05",
}

// ParseDate accepts the published and the canonical date formats
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// ParsePrice reads a price, dropping thousands separators
func ParsePrice(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// Clean filters header echoes and placeholder rows, then converts the
// date and the first two price columns. One bad cell fails the table.
func Clean(raw *RawTable) (*Table, error) {
	if len(raw.Header) < MinColumns {
		return nil, fmt.Errorf("%w: want at least %d columns, got %d", ErrMalformedHeader, MinColumns, len(raw.Header))
	}

	rows := make([]sourceRow, 0, len(raw.Rows))
	for i, r := range raw.Rows {
		rows = append(rows, sourceRow{index: i, cells: fitRow(r, len(raw.Header))})
	}
	rows = dropRows(rows, func(r []string) bool { return r[0] == "date" })
	rows = dropRows(rows, func(r []string) bool { return r[1] == Placeholder })
	rows = dropRows(rows, func(r []string) bool { return r[2] == Placeholder })
	rows = dropRows(rows, func(r []string) bool { return r[3] == Placeholder })

	out := &Table{
		Header: append([]string(nil), raw.Header...),
		Rows:   make([]PriceRow, 0, len(rows)),
	}
	for _, r := range rows {
		row, err := parseRow(raw.Header, r.cells)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Row = r.index
			}
			return nil, err
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// ParseRecord converts a text record back into a PriceRow
func ParseRecord(header, record []string) (PriceRow, error) {
	if len(record) < MinColumns-1 || len(header) < len(record) {
		return PriceRow{}, fmt.Errorf("record has %d fields for %d columns", len(record), len(header))
	}
	return parseRow(header, record)
}

func parseRow(header, r []string) (PriceRow, error) {
	date, err := ParseDate(r[0])
	if err != nil {
		return PriceRow{}, &ParseError{Column: header[0], Value: r[0], Err: err}
	}
	buyer, err := ParsePrice(r[1])
	if err != nil {
		return PriceRow{}, &ParseError{Column: header[1], Value: r[1], Err: err}
	}
	seller, err := ParsePrice(r[2])
	if err != nil {
		return PriceRow{}, &ParseError{Column: header[2], Value: r[2], Err: err}
	}

	return PriceRow{
		Date:       date,
		CashBuyer:  buyer,
		CashSeller: seller,
		Extra:      append([]string(nil), r[3:]...),
	}, nil
}

// sourceRow keeps a data row's position in the published table
type sourceRow struct {
	index int
	cells []string
}

func dropRows(rows []sourceRow, drop func([]string) bool) []sourceRow {
	kept := rows[:0:0]
	for _, r := range rows {
		if !drop(r.cells) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Parse extracts and cleans the first table of a page
func Parse(html string) (*Table, error) {
	raw, err := Extract(html)
	if err != nil {
		return nil, err
	}
	return Clean(raw)
}
