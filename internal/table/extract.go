package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrNoTable         = errors.New("no table found")
	ErrMalformedHeader = errors.New("malformed table header")
)

// Extract locates the first table in the page and returns its cells as text.
// The first row with cells is the header, every later row with cells is data.
func Extract(html string) (*RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, ErrNoTable
	}

	raw := &RawTable{}
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td").Map(func(_ int, cell *goquery.Selection) string {
			return cellText(cell.Text())
		})
		if len(cells) == 0 {
			return
		}
		if raw.Header == nil {
			raw.Header = cells
			return
		}
		raw.Rows = append(raw.Rows, cells)
	})

	if len(raw.Header) < MinColumns {
		return nil, fmt.Errorf("%w: want at least %d columns, got %d", ErrMalformedHeader, MinColumns, len(raw.Header))
	}
	if raw.Header[0] != "date" {
		return nil, fmt.Errorf("%w: first column is %q, want \"date\"", ErrMalformedHeader, raw.Header[0])
	}

	for i, row := range raw.Rows {
		raw.Rows[i] = fitRow(row, len(raw.Header))
	}
	return raw, nil
}

// cellText collapses runs of whitespace, including non-breaking spaces
func cellText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fitRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
