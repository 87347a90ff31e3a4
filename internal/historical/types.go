package historical

import "github.com/sabarim/metaldata/internal/metals"

// Record is the persisted price history of one metal, as text
type Record struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of rows
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// MergeResult describes one merge-and-persist step
type MergeResult struct {
	// Skipped is set when there were no fresh rows and nothing was touched
	Skipped bool
	Fresh   int
	Prior   int
	Added   int
	Total   int
	Record  *Record
}

// Status is the outcome of one metal in a run
type Status string

const (
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the result of processing one metal
type Outcome struct {
	Metal    metals.Metal
	Status   Status
	Fresh    int
	Added    int
	Total    int
	Exported int
	Err      error
}

// Summary collects the outcomes of a run in processing order
type Summary struct {
	Outcomes []Outcome
}

// Failed counts metals that ended with an error
func (s Summary) Failed() int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			n++
		}
	}
	return n
}

// PricePoint represents a single price row for parquet
type PricePoint struct {
	Metal      string  `parquet:"name=metal, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Timestamp  int64   `parquet:"name=timestamp, type=INT64, encoding=DELTA_BINARY_PACKED"`
	Date       string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Year       int32   `parquet:"name=year, type=INT32, encoding=PLAIN_DICTIONARY"`
	Month      int32   `parquet:"name=month, type=INT32, encoding=PLAIN_DICTIONARY"`
	Day        int32   `parquet:"name=day, type=INT32, encoding=PLAIN_DICTIONARY"`
	CashBuyer  float64 `parquet:"name=cash_buyer, type=DOUBLE, encoding=PLAIN"`
	CashSeller float64 `parquet:"name=cash_seller, type=DOUBLE, encoding=PLAIN"`
	Extra      string  `parquet:"name=extra, type=BYTE_ARRAY, convertedtype=UTF8"`
}
