package table

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_CSV(t *testing.T) {
	tbl, err := Parse("year,revenue\n2020,100\n2021,200")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.XCol != "year" || tbl.YCol != "revenue" {
		t.Errorf("axes = (%q, %q), want (year, revenue)", tbl.XCol, tbl.YCol)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	ys := tbl.YValues()
	if ys[0] != 100 || ys[1] != 200 {
		t.Errorf("YValues = %v", ys)
	}
	if tbl.XKindOf() != XNumeric {
		t.Errorf("x kind = %v, want numeric", tbl.XKindOf())
	}
}

func TestParse_MarkdownMatchesCSV(t *testing.T) {
	md := strings.Join([]string{
		"| year | revenue |",
		"|------|---------|",
		"| 2020 | 100     |",
		"| 2021 | 200     |",
	}, "\n")

	fromMD, err := Parse(md)
	if err != nil {
		t.Fatalf("Parse markdown failed: %v", err)
	}
	fromCSV, err := Parse("year,revenue\n2020,100\n2021,200")
	if err != nil {
		t.Fatalf("Parse csv failed: %v", err)
	}

	if fromMD.XCol != fromCSV.XCol || fromMD.YCol != fromCSV.YCol {
		t.Errorf("axes differ: md (%q,%q) csv (%q,%q)",
			fromMD.XCol, fromMD.YCol, fromCSV.XCol, fromCSV.YCol)
	}
	if len(fromMD.Rows) != len(fromCSV.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(fromMD.Rows), len(fromCSV.Rows))
	}
	for i := range fromMD.Rows {
		for _, col := range fromMD.Columns {
			if fromMD.Rows[i][col] != fromCSV.Rows[i][col] {
				t.Errorf("row %d col %s: %q vs %q", i, col, fromMD.Rows[i][col], fromCSV.Rows[i][col])
			}
		}
	}
}

func TestParse_MarkdownAlignmentColons(t *testing.T) {
	md := "| city | count |\n|:-----|------:|\n| Lahore | 12 |\n| Karachi | 30 |"
	tbl, err := Parse(md)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.XCol != "city" || tbl.YCol != "count" {
		t.Errorf("axes = (%q, %q)", tbl.XCol, tbl.YCol)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(tbl.Rows))
	}
}

func TestParse_Whitespace(t *testing.T) {
	tbl, err := Parse("a b\n1 2\n3 4")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.XCol != "a" || tbl.YCol != "b" {
		t.Errorf("axes = (%q, %q), want (a, b)", tbl.XCol, tbl.YCol)
	}
	ys := tbl.YValues()
	if len(ys) != 2 || ys[0] != 2 || ys[1] != 4 {
		t.Errorf("YValues = %v", ys)
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank", "   \n\t "},
		{"header only", "a,b"},
		{"no numeric column", "name\nAlice\nBob"},
		{"no numeric second column", "name,city\nAlice,Lahore\nBob,Karachi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) err = %v, want *ParseError", tt.in, err)
			}
		})
	}
}

func TestParse_XColumnSelection(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		wantX string
		wantY string
	}{
		{
			name:  "date name wins over position",
			in:    "revenue,date\n100,2020-01-01\n200,2020-02-01",
			wantX: "date",
			wantY: "revenue",
		},
		{
			name:  "substring match",
			in:    "fiscal_year,total\n2020,9\n2021,11",
			wantX: "fiscal_year",
			wantY: "total",
		},
		{
			name:  "first column fallback",
			in:    "region,sales\nnorth,5\nsouth,7",
			wantX: "region",
			wantY: "sales",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if tbl.XCol != tt.wantX || tbl.YCol != tt.wantY {
				t.Errorf("axes = (%q, %q), want (%q, %q)", tbl.XCol, tbl.YCol, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestParse_CoercesAdornedNumbers(t *testing.T) {
	tbl, err := Parse("quarter,sales\nQ1,\"$1,200\"\nQ2,$900")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.YCol != "sales" {
		t.Fatalf("YCol = %q, want sales", tbl.YCol)
	}
	ys := tbl.YValues()
	if ys[0] != 1200 || ys[1] != 900 {
		t.Errorf("YValues = %v, want [1200 900]", ys)
	}
}

func TestParse_DateXColumn(t *testing.T) {
	tbl, err := Parse("date,visits\n2023-01-01,5\n2023-01-02,8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.XKindOf() != XTime {
		t.Fatalf("x kind = %v, want time", tbl.XKindOf())
	}
	times := tbl.XTimes()
	if len(times) != 2 || !times[1].After(times[0]) {
		t.Errorf("XTimes = %v", times)
	}
}

func TestParse_UnparseableDatesLeftAsText(t *testing.T) {
	tbl, err := Parse("date,visits\nsometime,5\nlater,8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.XKindOf() != XText {
		t.Errorf("x kind = %v, want text", tbl.XKindOf())
	}
	labels := tbl.XLabels()
	if len(labels) != 2 || labels[0] != "sometime" {
		t.Errorf("XLabels = %v", labels)
	}
}

func TestParse_DuplicateAndBlankHeaders(t *testing.T) {
	tbl, err := Parse("x,x,\n1,2,3\n4,5,6")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"x", "x_2", "col3"}
	if len(tbl.Columns) != len(want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}
	for i := range want {
		if tbl.Columns[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, tbl.Columns[i], want[i])
		}
	}
}

func TestSeparatorRowDetection(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"|---|---|", true},
		{"| :---: | ---: |", true},
		{"|--|", true},
		{"---", false},
		{"-----  -----", false},
		{":---:", false},
		{"| a | b |", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isSeparatorRow(tt.line); got != tt.want {
			t.Errorf("isSeparatorRow(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParse_BareDashRuleIsNotMarkdown(t *testing.T) {
	// a pipe inside a cell plus a dashed underline must not trigger the
	// markdown strategy and split rows on the pipe
	txt := strings.Join([]string{
		"region|zone count",
		"-----------  -----",
		"north 3",
		"south 4",
	}, "\n")

	tbl, err := Parse(txt)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tbl.Columns) != 2 || tbl.Columns[0] != "region|zone" {
		t.Fatalf("columns = %v, want [region|zone count]", tbl.Columns)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	ys := tbl.YValues()
	if ys[0] != 3 || ys[1] != 4 {
		t.Errorf("YValues = %v", ys)
	}
}

func TestParse_RaggedRowLeavesNoNumericColumn(t *testing.T) {
	// The short row is padded with an empty cell, which disqualifies the
	// score column from being numeric and from coercion.
	_, err := Parse("name,score\nAlice,10\nBob")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}
