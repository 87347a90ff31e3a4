package table

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical on-disk date format
const DateLayout = "2006-01-02"

// MinColumns is date plus the three price columns the cleaner inspects
const MinColumns = 4

// RawTable is the first HTML table of a page as text cells
type RawTable struct {
	Header []string
	Rows   [][]string
}

// PriceRow is one cleaned observation
type PriceRow struct {
	Date       time.Time
	CashBuyer  decimal.Decimal
	CashSeller decimal.Decimal
	// Extra holds columns 4 and up, as published
	Extra []string
}

// Record renders the row in canonical text form
func (r PriceRow) Record() []string {
	record := make([]string, 0, 3+len(r.Extra))
	record = append(record,
		r.Date.Format(DateLayout),
		r.CashBuyer.String(),
		r.CashSeller.String(),
	)
	return append(record, r.Extra...)
}

// Table is a cleaned price table
type Table struct {
	Header []string
	Rows   []PriceRow
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Records renders every row in canonical text form
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.Len())
	if t == nil {
		return records
	}
	for _, row := range t.Rows {
		records = append(records, row.Record())
	}
	return records
}
