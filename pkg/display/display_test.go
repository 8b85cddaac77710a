package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayWidthASCII(t *testing.T) {
	assert.Equal(t, 5, DisplayWidth("hello"))
}

func TestToWidthPadsShortValues(t *testing.T) {
	assert.Equal(t, "ab   ", ToWidth("ab", 5))
	assert.Equal(t, "abcde", ToWidth("abcde", 3))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0, Max())
	assert.Equal(t, 7, Max(3, 7, 1))
}

func TestTableHeaderAndSeparator(t *testing.T) {
	table := NewTable().AddColumnWithMinWidth("VERSION", 9).AddColumnWithMinWidth("COST", 6)
	assert.Contains(t, table.HeaderRow(), "VERSION")
	assert.Equal(t, len(table.HeaderRow()), len(table.SeparatorRow()))
}

func TestTableConditionalColumnHidden(t *testing.T) {
	table := NewTable().AddColumn("NAME").AddConditionalColumn("EXTRA", false)
	assert.Equal(t, 1, table.VisibleColumnCount())
	row := table.FormatRow("value", "hidden-value")
	assert.NotContains(t, row, "hidden-value")
}

func TestNewVersionsTable(t *testing.T) {
	table := NewVersionsTable()
	assert.Contains(t, table.HeaderRow(), "VERSION")
	assert.Contains(t, table.HeaderRow(), "SOURCE")
}

func TestFprint(t *testing.T) {
	table := NewTable().AddColumn("A")
	buf := &bytes.Buffer{}
	table.Fprint(buf)
	assert.Contains(t, buf.String(), "A")
}

func TestProgressRendersPercentage(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, 200, "app-2.0.zip")
	p.SetCurrent(100)
	assert.Contains(t, buf.String(), "50%")
}

func TestProgressDoneAddsNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(buf, 10, "app-2.0.zip")
	p.Done()
	assert.Contains(t, buf.String(), "100%")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
