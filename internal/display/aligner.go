package display

import (
	"strings"

	"github.com/at-ishikawa/dictcc/internal/dictionary"
	"github.com/rivo/uniseg"
)

const (
	leaderMargin = 2
	leaderDot    = "."
)

// Width returns the width of the left segment for records: the widest left
// field plus a margin of two. Widths are terminal display columns, not byte
// or rune counts; for ASCII text the three agree.
func Width(records []dictionary.Record) int {
	width := 0
	for _, record := range records {
		width = max(width, uniseg.StringWidth(record.Left))
	}
	return width + leaderMargin
}

// Render formats records as two columns separated by a dot leader.
// Every left segment is exactly Width(records) display columns wide, so a
// wide character such as 日 counts as two columns and é as one.
func Render(records []dictionary.Record) []string {
	width := Width(records)
	leader := strings.Repeat(leaderDot, width)

	lines := make([]string, 0, len(records))
	for _, record := range records {
		pad := width - uniseg.StringWidth(record.Left)
		lines = append(lines, record.Left+leader[:max(pad, 0)]+" "+record.Right)
	}
	return lines
}

// RenderLines renders raw store lines.
func RenderLines(lines []string) []string {
	records := make([]dictionary.Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, dictionary.ParseRecord(line))
	}
	return Render(records)
}
