package historical

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sabarim/metaldata/internal/metals"
	"github.com/sabarim/metaldata/internal/table"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetExporter mirrors merged records into one parquet file per metal
type ParquetExporter struct {
	dir string
}

// NewParquetExporter creates the output directory and returns an exporter
func NewParquetExporter(dir string) (*ParquetExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parquet directory: %w", err)
	}
	return &ParquetExporter{dir: dir}, nil
}

// Path returns the parquet file of a metal
func (pe *ParquetExporter) Path(metal metals.Metal) string {
	return filepath.Join(pe.dir, metal.ParquetFile())
}

// Export rewrites the metal's parquet file from the record and returns the
// number of rows written. Rows that no longer parse are skipped.
func (pe *ParquetExporter) Export(metal metals.Metal, rec *Record) (int, error) {
	points := make([]PricePoint, 0, rec.Len())
	for i, row := range rec.Rows {
		price, err := table.ParseRecord(rec.Header, row)
		if err != nil {
			slog.Warn("skipping unparseable row in parquet export", "metal", metal.Name, "row", i, "err", err)
			continue
		}
		points = append(points, newPricePoint(metal, price))
	}

	if len(points) == 0 {
		slog.Debug("no rows to export", "metal", metal.Name)
		return 0, nil
	}

	filename := pe.Path(metal)
	if err := writePoints(filename, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

func newPricePoint(metal metals.Metal, row table.PriceRow) PricePoint {
	return PricePoint{
		Metal:      metal.Name,
		Timestamp:  row.Date.Unix(),
		Date:       row.Date.Format(table.DateLayout),
		Year:       int32(row.Date.Year()),
		Month:      int32(row.Date.Month()),
		Day:        int32(row.Date.Day()),
		CashBuyer:  row.CashBuyer.InexactFloat64(),
		CashSeller: row.CashSeller.InexactFloat64(),
		Extra:      strings.Join(row.Extra, "|"),
	}
}

// writePoints writes price points to a parquet file
func writePoints(filename string, points []PricePoint) error {
	fw, err := local.NewLocalFileWriter(filename)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(PricePoint), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	pw.CompressionType = parquet.CompressionCodec_GZIP
	// Daily rows for a handful of years fit in a single small row group.
	pw.RowGroupSize = 8 * 1024 * 1024
	pw.PageSize = 8 * 1024

	for _, point := range points {
		if err := pw.Write(point); err != nil {
			return fmt.Errorf("failed to write parquet data: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	slog.Debug("wrote parquet file", "rows", len(points), "path", filename)
	return nil
}
