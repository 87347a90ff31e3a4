package metals

import "fmt"

// Metal represents one tracked LME commodity
type Metal struct {
	Symbol string
	Name   string
}

// RecordFile is the CSV file holding the metal's price history
func (m Metal) RecordFile() string {
	return fmt.Sprintf("%s_database.csv", m.Name)
}

// ParquetFile is the Parquet export of the metal's price history
func (m Metal) ParquetFile() string {
	return fmt.Sprintf("%s_database.parquet", m.Name)
}

func (m Metal) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Symbol)
}
