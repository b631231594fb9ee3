package budget

import (
	"strings"
	"testing"
	"unicode/utf8"

	"sheetchat/internal/dataset"
)

func makeTable(rows int, cellWidth int) *dataset.Table {
	cell := strings.Repeat("x", cellWidth)
	table := &dataset.Table{Columns: []string{"a", "b", "c"}}
	for i := 0; i < rows; i++ {
		table.Rows = append(table.Rows, []string{cell, cell, cell})
	}
	return table
}

func TestFullOrTruncateKeepsSmallTable(t *testing.T) {
	table := makeTable(10, 4)
	bounded := Build(table, "src-1", FullOrTruncate(0, 0))

	if bounded.Truncated {
		t.Fatalf("expected truncated=false for small table")
	}
	if bounded.SourceID != "src-1" {
		t.Fatalf("expected source id src-1, got %q", bounded.SourceID)
	}
	lines := strings.Split(bounded.Text, "\n")
	if len(lines) != 11 {
		t.Fatalf("expected header plus 10 rows, got %d lines", len(lines))
	}
	if lines[0] != "a\tb\tc" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
}

func TestFullOrTruncateCapsLargeTable(t *testing.T) {
	// 3 cells of 100 chars per row keeps each row ~302 chars; 100 rows is
	// comfortably past the 20000 char limit.
	table := makeTable(100, 100)
	bounded := Build(table, "src-1", FullOrTruncate(DefaultCharLimit, DefaultTruncLimit))

	if !bounded.Truncated {
		t.Fatalf("expected truncated=true for oversized table")
	}
	if len(bounded.Text) != DefaultTruncLimit {
		t.Fatalf("expected exactly %d chars, got %d", DefaultTruncLimit, len(bounded.Text))
	}
}

func TestFullOrTruncateBoundary(t *testing.T) {
	table := makeTable(50, 10)
	full := Build(table, "s", FullOrTruncate(1<<30, DefaultTruncLimit))
	limit := len(full.Text)

	atLimit := Build(table, "s", FullOrTruncate(limit, DefaultTruncLimit))
	if atLimit.Truncated {
		t.Fatalf("rendering exactly at the char limit must not truncate")
	}
	if atLimit.Text != full.Text {
		t.Fatalf("text at limit must equal the full rendering")
	}

	below := Build(table, "s", FullOrTruncate(limit-1, 100))
	if !below.Truncated {
		t.Fatalf("rendering one past the char limit must truncate")
	}
	if len(below.Text) != 100 {
		t.Fatalf("expected 100 chars after truncation, got %d", len(below.Text))
	}
}

func TestFullOrTruncateCutsOnRuneBoundary(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"h"},
		Rows:    [][]string{{strings.Repeat("日", 200)}},
	}
	// Byte 100 falls inside a 3-byte rune; the cut must back off.
	bounded := Build(table, "s", FullOrTruncate(10, 100))

	if !bounded.Truncated {
		t.Fatalf("expected truncated=true")
	}
	if !utf8.ValidString(bounded.Text) {
		t.Fatalf("truncated text is not valid utf-8: %q", bounded.Text)
	}
	if len(bounded.Text) == 0 || len(bounded.Text) > 100 {
		t.Fatalf("expected a non-empty cut within 100 bytes, got %d", len(bounded.Text))
	}
	if !strings.HasPrefix(bounded.Text, "h\n日") {
		t.Fatalf("unexpected cut content %q", bounded.Text)
	}
}

func TestRowCappedLargeTable(t *testing.T) {
	table := makeTable(200, 4)
	bounded := Build(table, "src-2", RowCapped(50))

	if !bounded.Truncated {
		t.Fatalf("expected truncated=true on 200-row table with cap 50")
	}
	lines := strings.Split(bounded.Text, "\n")
	if len(lines) != 51 {
		t.Fatalf("expected header plus 50 rows, got %d lines", len(lines))
	}
}

func TestRowCappedSmallTable(t *testing.T) {
	table := makeTable(30, 4)
	bounded := Build(table, "src-2", RowCapped(50))

	if bounded.Truncated {
		t.Fatalf("expected truncated=false on 30-row table with cap 50")
	}
	lines := strings.Split(bounded.Text, "\n")
	if len(lines) != 31 {
		t.Fatalf("expected header plus 30 rows, got %d lines", len(lines))
	}
}
