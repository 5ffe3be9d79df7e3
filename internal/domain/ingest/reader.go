// Package ingest reads raw social-platform metrics tables (CSV or XLSX) into
// a canonical in-memory form consumed by the normalizer.
//
// Headers are tolerant: known synonyms (followers_*, seguidores_*,
// retweets_twitter, ...) are renamed onto canonical columns, duplicate
// headers keep the first occurrence, and numeric cells accept pt-BR locale
// formatting. Reads are pure; the reader never writes.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one ingested player observation row.
type Row struct {
	Name        string
	Values      map[string]float64
	PeriodStart string
	PeriodEnd   string
}

// Value returns the cleaned numeric value for a canonical column, or zero
// when the column is absent or the cell was empty.
func (r *Row) Value(col string) float64 {
	return r.Values[col]
}

// RawTable is an ordered sequence of ingested rows plus the canonical
// numeric columns that were present in the source.
type RawTable struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether a canonical numeric column was present.
func (t *RawTable) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// ReadTable parses a raw metrics table from path. XLSX sources honor the
// sheet selector (index or name); flat CSV sources ignore it.
func ReadTable(path string, opts ...Option) (*RawTable, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}

	var (
		grid [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		grid, err = readExcelGrid(path, o.sheet)
	default:
		grid, err = readCSVGrid(path)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(grid)
}

// readCSVGrid reads a CSV file, accepting either comma or semicolon
// delimiters. The delimiter is picked from whichever dominates the header.
func readCSVGrid(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	head, _, _ := bytes.Cut(data, []byte("\n"))
	comma := ','
	if bytes.Count(head, []byte(";")) > bytes.Count(head, []byte(",")) {
		comma = ';'
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	grid, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return grid, nil
}

// readExcelGrid reads one sheet of an XLSX workbook. The selector is a
// numeric index ("0", "1") or a sheet name; empty selects the first sheet.
func readExcelGrid(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}

	name := sheets[0]
	switch sel := strings.TrimSpace(sheet); {
	case sel == "":
	case isDigits(sel):
		idx, _ := strconv.Atoi(sel)
		if idx < 0 || idx >= len(sheets) {
			return nil, fmt.Errorf("%w: sheet index %d out of range", ErrMalformedInput, idx)
		}
		name = sheets[idx]
	default:
		found := false
		for _, s := range sheets {
			if strings.EqualFold(s, sel) {
				name = s
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrMalformedInput, sel)
		}
	}

	grid, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return grid, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildTable canonicalizes headers and cleans cells column by column.
func buildTable(grid [][]string) (*RawTable, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrMalformedInput)
	}

	type numericCol struct {
		index int
		name  string
	}
	var (
		nameIdx   = -1
		psIdx     = -1
		peIdx     = -1
		numeric   []numericCol
		seen      = map[string]bool{}
		canonCols []string
	)
	for i, header := range grid[0] {
		canon, isNumeric := canonicalize(header)
		switch {
		case canon == "name":
			if nameIdx < 0 {
				nameIdx = i
			}
		case canon == "period_start":
			if psIdx < 0 {
				psIdx = i
			}
		case canon == "period_end":
			if peIdx < 0 {
				peIdx = i
			}
		case isNumeric:
			if !seen[canon] {
				seen[canon] = true
				numeric = append(numeric, numericCol{index: i, name: canon})
				canonCols = append(canonCols, canon)
			}
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: missing player name column", ErrMalformedInput)
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	body := grid[1:]
	// Column-wise cleaning so percent detection sees the full column.
	cleaned := make(map[string][]float64, len(numeric))
	present := make(map[string][]bool, len(numeric))
	for _, col := range numeric {
		values := make([]float64, len(body))
		ok := make([]bool, len(body))
		anyPct := false
		for ri, row := range body {
			v, hadPct, parsed := cleanNumber(cell(row, col.index))
			if hadPct {
				anyPct = true
			}
			if parsed {
				values[ri] = v
				ok[ri] = true
			}
		}
		// Rates are scaled onto fractions and keep full precision; counters
		// get the one-decimal ingest rounding.
		if isPercentColumn(col.name) {
			normalizePercentColumn(values, ok, anyPct)
		} else {
			roundColumn(values)
		}
		cleaned[col.name] = values
		present[col.name] = ok
	}

	table := &RawTable{Columns: canonCols}
	for ri, row := range body {
		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			continue
		}
		values := make(map[string]float64, len(numeric))
		for _, col := range numeric {
			if present[col.name][ri] {
				values[col.name] = cleaned[col.name][ri]
			}
		}
		table.Rows = append(table.Rows, Row{
			Name:        name,
			Values:      values,
			PeriodStart: strings.TrimSpace(cell(row, psIdx)),
			PeriodEnd:   strings.TrimSpace(cell(row, peIdx)),
		})
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: no player rows", ErrMalformedInput)
	}
	return table, nil
}
