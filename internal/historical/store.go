package historical

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sabarim/metaldata/internal/metals"
	"github.com/sabarim/metaldata/internal/table"
)

// Store keeps one CSV record per metal in a directory
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. Nothing is touched until a save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the record file of a metal
func (s *Store) Path(metal metals.Metal) string {
	return filepath.Join(s.dir, metal.RecordFile())
}

// Load reads a metal's record. A missing file is an empty record.
func (s *Store) Load(metal metals.Metal) (*Record, error) {
	path := s.Path(metal)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no prior record, starting empty", "metal", metal.Name, "path", path)
		return &Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open record: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Record{}, nil
	}
	header, rows := records[0], records[1:]
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("record %s: data row %d has %d fields, header has %d", path, i+1, len(row), len(header))
		}
	}
	return &Record{Header: header, Rows: rows}, nil
}

// Save replaces a metal's record. The new content is written to a temporary
// file first so a failed write leaves the previous record in place.
func (s *Store) Save(metal metals.Metal, rec *Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	path := s.Path(metal)
	tmp, err := os.CreateTemp(s.dir, metal.RecordFile()+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary record: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(rec.Header); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rec.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set record permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace record: %w", err)
	}

	slog.Debug("saved record", "metal", metal.Name, "rows", rec.Len(), "path", path)
	return nil
}

// MergeAndPersist folds fresh rows into a metal's record and writes it back.
// An empty fresh table is a no-op and performs no disk I/O.
func (s *Store) MergeAndPersist(metal metals.Metal, fresh *table.Table) (MergeResult, error) {
	if fresh.Len() == 0 {
		return MergeResult{Skipped: true}, nil
	}

	prior, err := s.Load(metal)
	if err != nil {
		return MergeResult{}, err
	}

	merged := Merge(fresh, prior)
	if err := s.Save(metal, merged); err != nil {
		return MergeResult{}, err
	}

	return MergeResult{
		Fresh:  fresh.Len(),
		Prior:  prior.Len(),
		Added:  merged.Len() - countDistinct(prior.Rows),
		Total:  merged.Len(),
		Record: merged,
	}, nil
}

// Merge puts fresh rows ahead of prior rows and drops whole-row duplicates,
// keeping the first occurrence. Prior columns missing from the fresh header
// are appended and left empty for fresh rows.
func Merge(fresh *table.Table, prior *Record) *Record {
	header := append([]string(nil), fresh.Header...)
	if prior == nil {
		prior = &Record{}
	}

	position := make(map[string]int, len(header))
	for i, name := range header {
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}
	for _, name := range prior.Header {
		if _, ok := position[name]; !ok {
			position[name] = len(header)
			header = append(header, name)
		}
	}

	combined := make([][]string, 0, fresh.Len()+prior.Len())
	for _, record := range fresh.Records() {
		combined = append(combined, widen(record, len(header)))
	}
	sameHeader := slices.Equal(prior.Header, header)
	for _, row := range prior.Rows {
		if sameHeader {
			combined = append(combined, widen(row, len(header)))
			continue
		}
		projected := make([]string, len(header))
		for j, name := range prior.Header {
			if j < len(row) {
				projected[position[name]] = row[j]
			}
		}
		combined = append(combined, projected)
	}

	return &Record{Header: header, Rows: dedupe(combined)}
}

func widen(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// rowKey identifies a row by its exact field values
func rowKey(row []string) string {
	var b strings.Builder
	for _, field := range row {
		b.WriteString(strconv.Quote(field))
		b.WriteByte(',')
	}
	return b.String()
}

func dedupe(rows [][]string) [][]string {
	seen := make(map[string]struct{}, len(rows))
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func countDistinct(rows [][]string) int {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		seen[rowKey(row)] = struct{}{}
	}
	return len(seen)
}
