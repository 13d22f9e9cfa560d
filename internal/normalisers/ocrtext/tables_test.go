package ocrtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTables_HeaderAndRows(t *testing.T) {
	in := `<table>
<tr><th>Item</th><th>Amount</th></tr>
<tr><td>Rent</td><td>1200</td></tr>
<tr><td>Power</td><td>80</td></tr>
</table>`

	out := convertTables(in)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	// N data rows + header + separator.
	require.Len(t, lines, 4)
	assert.Equal(t, "| Item | Amount |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| Rent | 1200 |", lines[2])
	assert.Equal(t, "| Power | 80 |", lines[3])
}

func TestConvertTables_Idempotent(t *testing.T) {
	in := "<table><tr><th>A</th></tr><tr><td>1</td></tr></table>"

	once := convertTables(in)
	twice := convertTables(once)

	assert.NotContains(t, once, "<table")
	assert.Equal(t, once, twice)
}

func TestConvertTables_CellContent(t *testing.T) {
	t.Run("br inside cell becomes a space", func(t *testing.T) {
		in := "<table><tr><td>line one<br>line two</td></tr></table>"
		assert.Contains(t, convertTables(in), "| line one line two |")
	})

	t.Run("inline tags are transparent", func(t *testing.T) {
		in := "<table><tr><td>a <b>bold</b> word</td></tr></table>"
		assert.Contains(t, convertTables(in), "| a bold word |")
	})

	t.Run("delimiter is escaped", func(t *testing.T) {
		in := "<table><tr><td>a|b</td></tr></table>"
		assert.Contains(t, convertTables(in), `| a\|b |`)
	})
}

func TestConvertTables_EmptyTable(t *testing.T) {
	in := "before\n<table>   </table>\nafter"

	out := convertTables(in)

	assert.Equal(t, "before\n\nafter", out)
}

func TestConvertTables_Unterminated(t *testing.T) {
	in := "text before <table><tr><td>orphan cell"

	out := convertTables(in)

	// Kept for downstream tag stripping, never dropped.
	assert.Contains(t, out, "orphan cell")
	assert.Contains(t, out, "text before")
}

func TestConvertTables_MalformedFallsBackToStripping(t *testing.T) {
	// A cell outside any row is a structural failure; the span's text
	// survives with tags stripped.
	in := "<table><td>stranded</td></table>"

	out := convertTables(in)

	assert.NotContains(t, out, "<td>")
	assert.Contains(t, out, "stranded")
}

func TestConvertTables_NestedTreatedAsOneSpan(t *testing.T) {
	in := "<table><tr><td>outer</td></tr><table><tr><td>inner</td></tr></table></table> tail"

	out := convertTables(in)

	assert.NotContains(t, out, "<table")
	assert.Contains(t, out, "outer")
	assert.Contains(t, out, "inner")
	assert.Contains(t, out, "tail")
}

func TestConvertTables_SurroundingTextPreserved(t *testing.T) {
	in := "Intro paragraph.\n<table><tr><th>H</th></tr><tr><td>v</td></tr></table>\nOutro paragraph."

	out := convertTables(in)

	assert.True(t, strings.HasPrefix(out, "Intro paragraph.\n"))
	assert.True(t, strings.HasSuffix(out, "\nOutro paragraph."))
}
