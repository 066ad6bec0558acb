package files

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "courieraudit/internal/errors"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("invoices.csv"))
	assert.True(t, Supported("INVOICES.XLSX"))
	assert.False(t, Supported("old.xls"))
	assert.False(t, Supported("notes.txt"))
	assert.False(t, Supported("archive"))
}

func TestReadCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Order ID,AWB Number,Expected Charge,Billed Charge",
		"ORD-1,AWB-1,100,110",
		",,,",
		"ORD-2,AWB-2,200,199",
	}, "\n")

	rows, err := NewReader(nil).Read(strings.NewReader(csvData), "invoices.csv")
	require.NoError(t, err)

	assert.Equal(t, "invoices.csv", rows.Name)
	assert.Equal(t, []string{"Order ID", "AWB Number", "Expected Charge", "Billed Charge"}, rows.Headers)
	require.Len(t, rows.Rows, 2) // the all-empty row is skipped
	assert.Equal(t, "ORD-1", rows.Rows[0]["Order ID"])
	assert.Equal(t, "110", rows.Rows[0]["Billed Charge"])
	assert.Equal(t, "199", rows.Rows[1]["Billed Charge"])
}

func TestReadCSVRaggedRows(t *testing.T) {
	csvData := "Order ID,AWB Number,Expected Charge,Billed Charge\nORD-1,AWB-1,100\n"

	rows, err := NewReader(nil).Read(strings.NewReader(csvData), "ragged.csv")
	require.NoError(t, err)
	require.Len(t, rows.Rows, 1)

	// Missing trailing cells surface as empty values, not panics.
	assert.Equal(t, "", rows.Rows[0]["Billed Charge"])
}

func TestReadExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"", "", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Order ID", "AWB Number", "Billed Charge"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"ORD-1", "AWB-1", 160.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"ORD-2", "AWB-2", 200}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := NewReader(nil).Read(&buf, "invoices.xlsx")
	require.NoError(t, err)

	// The first non-empty row is the header row.
	assert.Equal(t, []string{"Order ID", "AWB Number", "Billed Charge"}, rows.Headers)
	require.Len(t, rows.Rows, 2)
	assert.Equal(t, "ORD-1", rows.Rows[0]["Order ID"])
	assert.Equal(t, "160.5", rows.Rows[0]["Billed Charge"])
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := NewReader(nil).Read(strings.NewReader("x"), "notes.txt")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestReadEmptyFile(t *testing.T) {
	_, err := NewReader(nil).Read(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestFindSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.xlsx", "ignore.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	paths, err := NewDiscovery(dir).FindSupportedFiles(".")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	// Deterministic name order keeps merge order stable across runs.
	assert.Equal(t, "a.xlsx", filepath.Base(paths[0]))
	assert.Equal(t, "b.csv", filepath.Base(paths[1]))
}

func TestFindSupportedFilesMissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindSupportedFiles("nope")
	assert.Error(t, err)
}
