package ocrtext

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// errTableStructure signals a structural parse failure inside a table
// span. The caller falls back to stripping tags: losing table structure
// is acceptable, losing the page content is not.
var errTableStructure = errors.New("malformed table structure")

// parser states for one table span.
const (
	stateOutsideRow = iota
	stateInRow
	stateInCell
)

// convertTables replaces each outermost <table>...</table> span with a
// pipe-delimited text block (header row, separator, data rows). Nested
// tables are treated as part of the outer span's raw content. An
// unterminated <table> tag is left in place for later tag stripping.
func convertTables(text string) string {
	lower := strings.ToLower(text)
	var out strings.Builder
	pos := 0

	for {
		rel := strings.Index(lower[pos:], "<table")
		if rel < 0 {
			out.WriteString(text[pos:])
			break
		}
		start := pos + rel
		end := findTableEnd(lower, start)
		if end < 0 {
			// No matching close tag. Keep the remainder verbatim;
			// stray tags are stripped downstream.
			out.WriteString(text[pos:])
			break
		}

		out.WriteString(text[pos:start])
		out.WriteString(renderTableSpan(text[start:end]))
		pos = end
	}

	return out.String()
}

// findTableEnd returns the index just past the </table> matching the
// <table at start, counting nested opens. Returns -1 when unmatched.
func findTableEnd(lower string, start int) int {
	depth := 0
	i := start

	for i < len(lower) {
		openIdx := strings.Index(lower[i:], "<table")
		closeIdx := strings.Index(lower[i:], "</table")

		if closeIdx < 0 {
			return -1
		}

		if openIdx >= 0 && openIdx < closeIdx {
			depth++
			i += openIdx + len("<table")
			continue
		}

		gt := strings.IndexByte(lower[i+closeIdx:], '>')
		if gt < 0 {
			return -1
		}
		depth--
		i += closeIdx + gt + 1
		if depth == 0 {
			return i
		}
	}

	return -1
}

// renderTableSpan converts one complete table span to delimited text,
// falling back to bare tag stripping when parsing fails.
func renderTableSpan(span string) string {
	rows, err := parseTableRows(span)
	if err != nil {
		return stripTags(span)
	}
	return renderRows(rows)
}

// parseTableRows runs a small state machine (outside-row, in-row,
// in-cell) over the tag-token stream of a table span. Cell text is
// accumulated across intervening inline tags; <br> inside a cell becomes
// a single space. The first row is the header row.
func parseTableRows(span string) ([][]string, error) {
	z := html.NewTokenizer(strings.NewReader(span))

	var (
		rows  [][]string
		row   []string
		cell  strings.Builder
		state = stateOutsideRow
	)

	closeCell := func() {
		if state == stateInCell {
			row = append(row, normaliseCell(cell.String()))
			cell.Reset()
			state = stateInRow
		}
	}
	closeRow := func() {
		closeCell()
		if state == stateInRow {
			if len(row) > 0 {
				rows = append(rows, row)
			}
			row = nil
			state = stateOutsideRow
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				closeRow()
				return rows, nil
			}
			return nil, z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "tr":
				// An unclosed previous row ends here.
				closeRow()
				state = stateInRow
			case "td", "th":
				if state == stateOutsideRow {
					return nil, errTableStructure
				}
				closeCell()
				state = stateInCell
			case "br":
				if state == stateInCell {
					cell.WriteByte(' ')
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "td", "th":
				closeCell()
			case "tr":
				closeRow()
			case "table":
				closeRow()
				return rows, nil
			}

		case html.TextToken:
			if state == stateInCell {
				cell.Write(z.Text())
			}
		}
	}
}

// normaliseCell collapses a cell's internal whitespace and escapes the
// column delimiter.
func normaliseCell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// renderRows emits the header row, a separator line with one placeholder
// per header cell, then the data rows. A table with zero parsed rows
// normalises to an empty string.
func renderRows(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}

	writeRow(rows[0])

	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return b.String()
}

// stripTags removes every tag from a fragment, keeping text content.
func stripTags(s string) string {
	return allTags.ReplaceAllString(s, " ")
}
