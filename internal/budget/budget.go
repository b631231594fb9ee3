package budget

import (
	"strings"
	"unicode/utf8"

	"sheetchat/internal/dataset"
)

const (
	PolicyFullOrTruncate = "full_or_truncate"
	PolicyRowCapped      = "row_capped"

	DefaultCharLimit  = 20000
	DefaultTruncLimit = 5000
	DefaultMaxRows    = 50
)

// Policy bounds how much of a table is forwarded to the completion service.
// The two strategies are mutually exclusive: full-or-truncate caps the
// rendered text length, row-capped caps the number of rendered rows.
type Policy struct {
	Kind       string
	CharLimit  int
	TruncLimit int
	MaxRows    int
}

func FullOrTruncate(charLimit, truncLimit int) Policy {
	if charLimit <= 0 {
		charLimit = DefaultCharLimit
	}
	if truncLimit <= 0 {
		truncLimit = DefaultTruncLimit
	}
	return Policy{Kind: PolicyFullOrTruncate, CharLimit: charLimit, TruncLimit: truncLimit}
}

func RowCapped(maxRows int) Policy {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return Policy{Kind: PolicyRowCapped, MaxRows: maxRows}
}

// BoundedContext is the size-limited textual rendering of a table that is
// safe to interpolate into a system prompt.
type BoundedContext struct {
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
	SourceID  string `json:"source_id"`
}

// Build renders the table under the policy. Pure function of its inputs.
func Build(table *dataset.Table, sourceID string, policy Policy) BoundedContext {
	switch policy.Kind {
	case PolicyRowCapped:
		rows := table.Rows
		truncated := len(rows) > policy.MaxRows
		if truncated {
			rows = rows[:policy.MaxRows]
		}
		return BoundedContext{
			Text:      render(table.Columns, rows),
			Truncated: truncated,
			SourceID:  sourceID,
		}
	default:
		text := render(table.Columns, table.Rows)
		if len(text) > policy.CharLimit {
			// Back off to a rune boundary so the cut never splits a
			// multi-byte cell value.
			cut := policy.TruncLimit
			if cut > len(text) {
				cut = len(text)
			}
			for cut > 0 && cut < len(text) && !utf8.RuneStart(text[cut]) {
				cut--
			}
			return BoundedContext{
				Text:      text[:cut],
				Truncated: true,
				SourceID:  sourceID,
			}
		}
		return BoundedContext{
			Text:      text,
			Truncated: false,
			SourceID:  sourceID,
		}
	}
}

func render(columns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, "\t"))
	for _, row := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}
