// Package table parses heterogeneous textual tables (CSV, markdown pipe
// tables, whitespace-aligned columns) into a structured form for charting.
package table

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports table text that could not be turned into a usable table.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse table: " + e.Reason
}

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// XKind describes how the x column values were interpreted.
type XKind int

const (
	XText XKind = iota // opaque labels
	XNumeric
	XTime
)

// Row maps column name to the raw cell text.
type Row map[string]string

// Table is a parsed table with chosen axis columns. YValues holds the y
// column parsed as floats, one per row; the x representation depends on
// XKind.
type Table struct {
	Columns []string
	Rows    []Row

	XCol string
	YCol string

	xKind    XKind
	xFloats  []float64
	xTimes   []time.Time
	yValues  []float64
	numerics map[string]bool
}

// XKindOf reports how the x column was typed.
func (t *Table) XKindOf() XKind { return t.xKind }

// IsNumeric reports whether every cell of the column parses as a number.
func (t *Table) IsNumeric(col string) bool { return t.numerics[col] }

// YValues returns the y column as floats, one value per row.
func (t *Table) YValues() []float64 { return t.yValues }

// XFloats returns the x column as floats when XKindOf is XNumeric.
func (t *Table) XFloats() []float64 { return t.xFloats }

// XTimes returns the x column as timestamps when XKindOf is XTime.
func (t *Table) XTimes() []time.Time { return t.xTimes }

// XLabels returns the raw x column text, one label per row.
func (t *Table) XLabels() []string {
	labels := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		labels[i] = row[t.XCol]
	}
	return labels
}

// Parse converts raw table text into a Table. Strategies are tried in order:
// markdown pipe table, comma-delimited text, whitespace-aligned columns. The
// first row is always the header. It fails with *ParseError when the text is
// empty, no strategy yields rows, or no numeric y column can be chosen.
func Parse(text string) (*Table, error) {
	txt := strings.TrimSpace(text)
	if txt == "" {
		return nil, parseErrorf("table text is empty")
	}

	var records [][]string
	switch {
	case isMarkdownTable(txt):
		records = parseMarkdown(txt)
	case strings.Contains(txt, "\n") && strings.Contains(txt, ","):
		records = parseCSV(txt)
	}
	if len(records) < 2 {
		records = parseWhitespace(txt)
	}
	if len(records) < 2 {
		return nil, parseErrorf("unable to parse table text; provide CSV or markdown table with header row")
	}

	t := &Table{Columns: uniqueColumns(records[0])}
	for _, rec := range records[1:] {
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	t.numerics = make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		t.numerics[col] = t.columnIsNumeric(col)
	}

	if err := t.chooseAxes(); err != nil {
		return nil, err
	}
	t.typeXColumn()
	return t, nil
}

// isMarkdownTable detects a pipe table with a dashes/colons separator row.
func isMarkdownTable(txt string) bool {
	if !strings.Contains(txt, "|") {
		return false
	}
	for _, line := range strings.Split(txt, "\n") {
		if isSeparatorRow(line) {
			return true
		}
	}
	return false
}

// isSeparatorRow matches markdown separator rows such as "|---|:---:|".
// A bare dash rule without pipes is not a separator, so text that merely
// contains a pipe character somewhere does not get the markdown treatment.
func isSeparatorRow(line string) bool {
	return strings.Contains(line, "|") && isDashRow(line)
}

// isDashRow matches underline rows made only of dashes, colons, pipes and
// spaces.
func isDashRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.Contains(trimmed, "--") {
		return false
	}
	return strings.Trim(trimmed, "|-: \t") == ""
}

// parseMarkdown drops separator rows, strips the outer pipes, and splits the
// remaining lines on "|".
func parseMarkdown(txt string) [][]string {
	var records [][]string
	for _, line := range strings.Split(txt, "\n") {
		if strings.TrimSpace(line) == "" || isDashRow(line) {
			continue
		}
		stripped := strings.Trim(strings.TrimSpace(line), "|")
		cells := strings.Split(stripped, "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		records = append(records, cells)
	}
	return records
}

func parseCSV(txt string) [][]string {
	r := csv.NewReader(strings.NewReader(txt))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil
	}
	return records
}

func parseWhitespace(txt string) [][]string {
	var records [][]string
	for _, line := range strings.Split(txt, "\n") {
		if isDashRow(line) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		records = append(records, fields)
	}
	return records
}

// uniqueColumns normalizes header names: blanks become positional names and
// duplicates get a numeric suffix.
func uniqueColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	cols := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("col%d", i+1)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 1
		}
		cols[i] = name
	}
	return cols
}

func (t *Table) columnIsNumeric(col string) bool {
	for _, row := range t.Rows {
		if _, err := strconv.ParseFloat(row[col], 64); err != nil {
			return false
		}
	}
	return len(t.Rows) > 0
}

// chooseAxes picks the x and y columns. The x column is the first whose
// lowercased name is, or contains, date/year/time; otherwise the first
// column. The y column is the first all-numeric column other than x; failing
// that, the second declared column is coerced to numeric, and the table is
// rejected when that also fails.
func (t *Table) chooseAxes() error {
	t.XCol = t.Columns[0]
	for _, col := range t.Columns {
		lc := strings.ToLower(col)
		if lc == "date" || lc == "year" || lc == "time" ||
			strings.Contains(lc, "date") || strings.Contains(lc, "year") || strings.Contains(lc, "time") {
			t.XCol = col
			break
		}
	}

	for _, col := range t.Columns {
		if col != t.XCol && t.numerics[col] {
			t.YCol = col
			t.yValues = make([]float64, len(t.Rows))
			for i, row := range t.Rows {
				t.yValues[i], _ = strconv.ParseFloat(row[col], 64)
			}
			return nil
		}
	}

	if len(t.Columns) >= 2 {
		candidate := t.Columns[1]
		if candidate != t.XCol {
			if values, ok := coerceNumeric(t.Rows, candidate); ok {
				t.YCol = candidate
				t.yValues = values
				return nil
			}
		}
	}

	return parseErrorf("no numeric column found to plot")
}

// coerceNumeric parses a column leniently, stripping currency and grouping
// adornments first. All cells must parse for the coercion to succeed.
func coerceNumeric(rows []Row, col string) ([]float64, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	values := make([]float64, len(rows))
	for i, row := range rows {
		cell := strings.TrimSpace(row[col])
		cell = strings.TrimPrefix(cell, "$")
		cell = strings.TrimSuffix(cell, "%")
		cell = strings.ReplaceAll(cell, ",", "")
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

// typeXColumn types the x column: numeric when every value parses as a
// float, a timestamp when every value parses under one date layout, text
// otherwise. Date parsing is best effort and never fails the table.
func (t *Table) typeXColumn() {
	t.xKind = XText

	floats := make([]float64, len(t.Rows))
	numeric := true
	for i, row := range t.Rows {
		v, err := strconv.ParseFloat(row[t.XCol], 64)
		if err != nil {
			numeric = false
			break
		}
		floats[i] = v
	}
	if numeric && len(t.Rows) > 0 {
		t.xKind = XNumeric
		t.xFloats = floats
		return
	}

	for _, layout := range dateLayouts {
		times := make([]time.Time, len(t.Rows))
		ok := true
		for i, row := range t.Rows {
			ts, err := time.Parse(layout, row[t.XCol])
			if err != nil {
				ok = false
				break
			}
			times[i] = ts
		}
		if ok && len(t.Rows) > 0 {
			t.xKind = XTime
			t.xTimes = times
			return
		}
	}
}
