package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"erpcalc/internal/calc"
)

func TestWriteXLSX(t *testing.T) {
	res := calc.JobSequencing([]string{"A,4", "B,2,2024-05-01"})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"jsm", "fcfs", "spt", "edd"}, f.GetSheetList())

	rows, err := f.GetRows("spt")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, res.Headers, rows[0])
	assert.Equal(t, []string{"1", "B", "2", "0", "2", "0", "2", "2024-05-01", "-"}, rows[1])

	styleID, err := f.GetCellStyle("jsm", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWriteXLSXEmptyResult(t *testing.T) {
	res := calc.MarketBasket(nil)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("basket")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Pair Item", "Frequency", "Support"}}, rows)
}
