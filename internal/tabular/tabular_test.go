package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadCSV_Basic(t *testing.T) {
	path := writeTempCSV(t, "Company Name,City\nAcme Inc,Boston\n\"Smith, Jones & Co\",Austin\n")

	table, err := ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Company Name", "City"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Acme Inc", "Boston"}, table.Rows[0])
	assert.Equal(t, []string{"Smith, Jones & Co", "Austin"}, table.Rows[1])
}

func TestReadCSV_VariableFieldCounts(t *testing.T) {
	path := writeTempCSV(t, "A,B,C\nonly\none,two,three\n")

	table, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"only"}, table.Rows[0])
}

func TestReadCSV_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	table := &Table{
		Header: []string{"Company", "State"},
		Rows:   [][]string{{"Acme", "TX"}, {"Beta, Inc", "CA"}},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, table))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, table.Header, got.Header)
	assert.Equal(t, table.Rows, got.Rows)
}

func TestReadXLSX_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"Company Name", "City"},
			{"Acme Inc", "Boston"},
		},
	})

	table, err := ReadXLSX(path, XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Company Name", "City"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Acme Inc", "Boston"}, table.Rows[0])
}

func TestReadXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Accounts": {
			{"Company"},
			{"Acme"},
		},
	})

	table, err := ReadXLSX(path, XLSXOptions{SheetName: "Accounts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Company"}, table.Header)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Missing"})
	assert.Error(t, err)
}

func TestColumnIndex(t *testing.T) {
	table := &Table{Header: []string{"ID", "Company Name", "City"}}

	idx, err := table.ColumnIndex("company name")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = table.ColumnIndex("Revenue")
	assert.Error(t, err)
}

func TestDefaultColumn(t *testing.T) {
	table := &Table{Header: []string{"ID", "Parent Company", "City"}}
	assert.Equal(t, 1, table.DefaultColumn("company"))

	// No header contains the keyword: fall back to the first column.
	table = &Table{Header: []string{"ID", "Name"}}
	assert.Equal(t, 0, table.DefaultColumn("company"))
}

func TestColumn_PadsShortRows(t *testing.T) {
	table := &Table{
		Header: []string{"A", "B"},
		Rows:   [][]string{{"x", "y"}, {"only"}},
	}
	assert.Equal(t, []string{"y", ""}, table.Column(1))
}

func TestAppendColumn(t *testing.T) {
	table := &Table{
		Header: []string{"A", "B"},
		Rows:   [][]string{{"x", "y"}, {"only"}},
	}

	require.NoError(t, table.AppendColumn("C", []string{"1", "2"}))
	assert.Equal(t, []string{"A", "B", "C"}, table.Header)
	assert.Equal(t, []string{"x", "y", "1"}, table.Rows[0])
	// Short rows pad out to the old width before the new value lands.
	assert.Equal(t, []string{"only", "", "2"}, table.Rows[1])
}

func TestAppendColumn_LengthMismatch(t *testing.T) {
	table := &Table{Header: []string{"A"}, Rows: [][]string{{"x"}}}
	assert.Error(t, table.AppendColumn("B", []string{"1", "2"}))
}
