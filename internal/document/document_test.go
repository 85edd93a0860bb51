package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIsBlank(t *testing.T) {
	assert.True(t, Table{}.IsBlank())
	assert.True(t, Table{{"", ""}, {"", ""}}.IsBlank())
	assert.False(t, Table{{"", ""}, {"x", ""}}.IsBlank())
}

func TestBuildTables(t *testing.T) {
	rows := []textRow{
		{y: 700, cells: []string{"Statement for July"}},
		{y: 680, cells: []string{"Date", "Description", "Amount"}},
		{y: 660, cells: []string{"13 Jul 2025", "GROCERY MART", "89.00"}},
		{y: 640, cells: []string{"Total Amount Due"}},
		{y: 620, cells: []string{"14 Jul 2025", "BOOKSTORE"}},
	}

	tables := buildTables(rows)
	require.Len(t, tables, 2, "single-cell rows break table runs")

	require.Len(t, tables[0], 2)
	assert.Equal(t, []string{"Date", "Description", "Amount"}, []string(tables[0][0]))
	assert.Equal(t, "GROCERY MART", tables[0][1][1])

	require.Len(t, tables[1], 1)
	// ragged row padded to the table's width
	assert.Equal(t, []string{"14 Jul 2025", "BOOKSTORE"}, []string(tables[1][0]))
}

func TestBuildTablesNone(t *testing.T) {
	rows := []textRow{
		{y: 700, cells: []string{"only"}},
		{y: 680, cells: []string{"single"}},
	}
	assert.Empty(t, buildTables(rows))
	assert.Empty(t, buildTables(nil))
}

func TestNormalizeWidth(t *testing.T) {
	in := Table{
		{"a", "b", "c"},
		{"d"},
		{"e", "f"},
	}
	out := normalizeWidth(in)
	for _, row := range out {
		assert.Len(t, row, 3)
	}
	assert.Equal(t, []string{"d", "", ""}, out[1])
}

func TestBuildText(t *testing.T) {
	rows := []textRow{
		{y: 700, cells: []string{"Date", "Amount"}},
		{y: 680, cells: []string{"13 Jul 2025 GROCERY"}},
	}
	assert.Equal(t, "Date Amount\n13 Jul 2025 GROCERY", buildText(rows))
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := Open([]byte("definitely not a pdf"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptFile)
}
