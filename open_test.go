package sheettable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-sheettable/csvtable"
)

func testFiles(t *testing.T) map[string]fs.FileReader {
	return map[string]fs.FileReader{
		"xlsx": newTestXLSX(t, "test.xlsx"),
		"xls":  newTestXLS(t, "test.xls"),
		"ods":  newTestODS(t, "test.ods"),
	}
}

func TestOpenSheet(t *testing.T) {
	for name, file := range testFiles(t) {
		t.Run(name, func(t *testing.T) {
			names, err := SheetNames(file, FormatAuto)
			require.NoError(t, err)
			require.Equal(t, []string{"sheet1", "sheet2"}, names)

			sheet, err := OpenSheet(file, FormatAuto, SheetName("sheet1"))
			require.NoError(t, err)
			require.Equal(t, "sheet1", sheet.Title())
			require.Equal(t, 5, sheet.NumRows())

			sheet, err = OpenSheet(file, FormatAuto, SheetIndex(1))
			require.NoError(t, err)
			require.Equal(t, "sheet2", sheet.Title())

			sheet, err = OpenSheet(file, FormatAuto, ActiveSheet)
			require.NoError(t, err)
			require.Equal(t, "sheet2", sheet.Title())
		})
	}
}

func TestOpenSheetNotExist(t *testing.T) {
	for name, file := range testFiles(t) {
		t.Run(name, func(t *testing.T) {
			sheet, err := OpenSheet(file, FormatAuto, SheetName("sheet3"))
			require.Nil(t, sheet)
			var notExist ErrSheetNotExist
			require.True(t, errors.As(err, &notExist), "ErrSheetNotExist expected")
			require.Equal(t, "sheet3", notExist.SheetName)

			sheet, err = OpenSheet(file, FormatAuto, SheetIndex(2))
			require.Nil(t, sheet)
			require.ErrorAs(t, err, new(ErrSheetNotExist))
		})
	}
}

func TestReadRange(t *testing.T) {
	for name, file := range testFiles(t) {
		t.Run(name, func(t *testing.T) {
			grid, err := ReadRange(file, FormatAuto, SheetName("sheet1"), 0, 0, 0, 0)
			require.NoError(t, err)
			require.Equal(t, toGrid(testSheets["sheet1"]), grid)

			grid, err = ReadRange(file, FormatAuto, SheetIndex(0), 1, 1, 2, 2)
			require.NoError(t, err)
			require.Equal(t, Grid{{"bb", "cc"}, {2.0, 3.0}}, grid)

			grid, err = ReadRange(file, FormatAuto, ActiveSheet, 0, 0, 0, 0)
			require.NoError(t, err)
			require.Equal(t, toGrid(testSheets["sheet2"]), grid)

			timestamps := make([]int64, 4)
			for i, value := range dateCells(t, file) {
				timestamps[i] = ExcelDateToTimestamp(value.(float64))
			}
			require.Equal(t, []int64{1451736793, 1451909593, 1481112793, 1451736793}, timestamps)
		})
	}
}

// dateCells returns the four date cells of sheet1.
func dateCells(t *testing.T, file fs.FileReader) Row {
	t.Helper()
	grid, err := ReadRange(file, FormatAuto, SheetName("sheet1"), 4, 0, 1, 4)
	require.NoError(t, err)
	require.Len(t, grid, 1)
	return grid[0]
}

func toGrid(rows [][]any) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = Row(row)
	}
	return grid
}

func TestReadTable(t *testing.T) {
	files := testFiles(t)
	files["csv"] = newTestCSV("test.csv")

	for name, file := range files {
		t.Run(name, func(t *testing.T) {
			fields := []string{"xxx", "zzz"}
			records, err := ReadTable(file, FormatAuto, ActiveSheet, 0, 0, fields, false)
			require.NoError(t, err)
			require.Equal(t, []Record{
				{Fields: fields, Values: []any{1.0, 3.0}},
				{Fields: fields, Values: []any{4.0, 6.0}},
			}, records)

			_, err = ReadTable(file, FormatAuto, ActiveSheet, 0, 0, fields, true)
			require.ErrorAs(t, err, new(SchemaMismatchError))

			_, err = ReadTable(file, FormatAuto, ActiveSheet, 0, 0, []string{"xxx", "yyy", "zzz", "ccc"}, false)
			var missing MissingFieldsError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, []string{"ccc"}, missing.Missing)

			records, err = ReadTable(file, FormatAuto, ActiveSheet, 0, 0, nil, true)
			require.NoError(t, err)
			require.Len(t, records, 2)
			require.Equal(t, []string{"xxx", "yyy", "zzz"}, records[1].Fields)
			require.Equal(t, []any{4.0, 5.0, 6.0}, records[1].Values)
		})
	}
}

func TestReadTableCSV(t *testing.T) {
	file := newTestCSV("prices.csv")

	names, err := SheetNames(file, FormatCSV)
	require.NoError(t, err)
	require.Equal(t, []string{"prices"}, names)

	records, err := ReadTable(file, FormatCSV, SheetName("prices"), 0, 0, []string{"yyy"}, false)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []any{5.0}, records[1].Values)

	records, err = ReadTable(file, FormatCSV, SheetIndex(0), 0, 1, []string{"zzz", "yyy"}, true)
	require.ErrorAs(t, err, new(SchemaMismatchError))
	require.Nil(t, records)

	_, err = ReadTable(file, FormatCSV, SheetName("other"), 0, 0, nil, false)
	require.ErrorAs(t, err, new(ErrSheetNotExist))
}

func TestReadTableCSVEmptyCells(t *testing.T) {
	file := &fs.MemFile{FileName: "gaps.csv", FileData: []byte("id,name,active\n1,,TRUE\n\n2,Bob\n")}

	grid, err := ReadRange(file, FormatAuto, ActiveSheet, 0, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, Grid{
		{"id", "name", "active"},
		{1.0, nil, true},
		{nil, nil, nil},
		{2.0, "Bob", nil},
	}, grid)

	records, err := ReadTable(file, FormatAuto, ActiveSheet, 0, 0, []string{"name", "active"}, false)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{nil, true},
		{"", ""},
		{"Bob", ""},
	}, recordValues(records))
}

func TestReadTableCSVLeadingZeros(t *testing.T) {
	file := &fs.MemFile{FileName: "codes.csv", FileData: []byte("zip,id,amount\n01234,007,0.50\n")}

	records, err := ReadTable(file, FormatAuto, ActiveSheet, 0, 0, nil, true)
	require.NoError(t, err)
	require.Equal(t, [][]any{{"01234", "007", 0.5}}, recordValues(records))
}

func TestReadTableCSVFormat(t *testing.T) {
	CSVFormat = csvtable.NewFormat("|")
	t.Cleanup(func() { CSVFormat = nil })

	file := &fs.MemFile{FileName: "piped.csv", FileData: []byte("name|amount\r\nA, B|1\u00a0000\r\nC|2\r\n")}

	records, err := ReadTable(file, FormatCSV, ActiveSheet, 0, 0, []string{"name", "amount"}, true)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{"A, B", "1\u00a0000"},
		{"C", 2.0},
	}, recordValues(records))

	CSVFormat = &csvtable.Format{Encoding: "UTF-8", Separator: "||", Newline: "\n"}
	_, err = ReadTable(file, FormatCSV, ActiveSheet, 0, 0, nil, false)
	require.Error(t, err, "invalid CSVFormat")
}

func TestOpenErrors(t *testing.T) {
	_, err := OpenSheet(newTestCSV("a.csv"), Format("pdf"), ActiveSheet)
	require.ErrorAs(t, err, new(UnsupportedFormatError))

	_, err = OpenSheet(newTestCSV("a.csv"), FormatAuto, SheetIndex(-1))
	require.ErrorAs(t, err, new(InvalidSelectorError))

	_, err = OpenSheet(&fs.MemFile{FileName: "empty.xlsx"}, FormatAuto, ActiveSheet)
	require.ErrorIs(t, err, ErrEmptyFile)

	_, err = OpenSheet(newTestCSV("a.xlsx"), FormatXLSX, ActiveSheet)
	require.Error(t, err, "CSV data is no valid xlsx")

	_, err = OpenSheet(newTestCSV("a.ods"), FormatODS, ActiveSheet)
	require.Error(t, err, "CSV data is no valid ods")

	_, err = OpenSheet(newTestCSV("a.xls"), FormatXLS, ActiveSheet)
	require.Error(t, err, "CSV data is no valid xls")
}
