// Package source reads the tabular inputs a mapping run consumes. One
// section references one flat CSV table (optionally sharded across files
// matched by a glob pattern); cells are parsed into typed scalars once, at
// read time.
package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oncokg/oncograph/internal/model"
)

// Table is the in-memory form of one tabular source: the header in file
// order plus one Row per record.
type Table struct {
	Path    string
	Columns []string
	Rows    []model.Row
}

// HasColumn reports whether the header declares a column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Reader resolves section file references against a data directory.
type Reader struct {
	dataDir string
}

// NewReader creates a reader rooted at dataDir. An empty dataDir means
// paths are taken as given.
func NewReader(dataDir string) *Reader {
	return &Reader{dataDir: dataDir}
}

// Resolve expands a section's file reference into concrete paths. Plain
// paths must exist; glob patterns (doublestar syntax) must match at least
// one file. Matches come back sorted so shard order is stable.
func (r *Reader) Resolve(section, pattern string) ([]string, error) {
	full := pattern
	if r.dataDir != "" && !filepath.IsAbs(pattern) {
		full = filepath.Join(r.dataDir, pattern)
	}

	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(full); err != nil {
			return nil, &model.SourceNotFoundError{Section: section, Path: full}
		}
		return []string{full}, nil
	}

	matches, err := doublestar.FilepathGlob(full)
	if err != nil {
		return nil, fmt.Errorf("section %q: bad source pattern %q: %w", section, pattern, err)
	}
	if len(matches) == 0 {
		return nil, &model.SourceNotFoundError{Section: section, Path: full}
	}
	sort.Strings(matches)
	return matches, nil
}

// Read loads one CSV file. The first record is the header; every cell is
// parsed into the narrowest scalar type that fits.
func (r *Reader) Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source %s: missing header row", path)
	}

	header := make([]string, len(records[0]))
	for i, c := range records[0] {
		header[i] = strings.TrimSpace(c)
	}

	table := &Table{Path: path, Columns: header}
	for _, record := range records[1:] {
		row := make(model.Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row[col] = ParseValue(record[i])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// dateLayouts are the formats accepted for date cells.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "02-Jan-2006"}

// ParseValue converts a raw cell into the narrowest typed scalar: integer,
// float, ISO date, then string.
func ParseValue(raw string) model.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.StringValue("")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.FloatValue(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateValue(t)
		}
	}
	return model.StringValue(raw)
}
