package sheettable

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"
	"github.com/xuri/excelize/v2"
)

// 2016-01-02 12:13:13, 2016-01-04 12:13:13, 2016-12-07 12:13:13, 2016-01-02 12:13:13
var testDates = []float64{42371.50917824074, 42373.50917824074, 42711.50917824074, 42371.50917824074}

// testSheets holds the expected cells of the test files
// including the trailing nil padding of ReadGrid.
var testSheets = map[string][][]any{
	"sheet1": {
		{"a", "b", "c", "d", nil, nil},
		{"aa", "bb", "cc", "dd", nil, nil},
		{1.0, 2.0, 3.0, 4.0, nil, nil},
		{"one", "two", "three", "four", nil, nil},
		{testDates[0], testDates[1], testDates[2], testDates[3], nil, "x"},
	},
	"sheet2": {
		{"xxx", "yyy", "zzz"},
		{1.0, 2.0, 3.0},
		{4.0, 5.0, 6.0},
	},
}

func testMemSheet(name string) *MemSheet {
	return NewMemSheet(name, testSheets[name])
}

// newTestXLSX returns an xlsx file with the testSheets
// and sheet2 as active sheet.
func newTestXLSX(t *testing.T, filename string) fs.FileReader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "sheet1"))
	idx, err := f.NewSheet("sheet2")
	require.NoError(t, err)
	for _, sheet := range []string{"sheet1", "sheet2"} {
		for r, row := range testSheets[sheet] {
			for c, value := range row {
				if value == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet, axis, value))
			}
		}
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return &fs.MemFile{FileName: filename, FileData: buf.Bytes()}
}

// newTestODS returns an ods file with the testSheets
// and sheet2 as active sheet.
func newTestODS(t *testing.T, filename string) fs.FileReader {
	t.Helper()

	var content strings.Builder
	content.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
<office:body><office:spreadsheet>`)
	for _, sheet := range []string{"sheet1", "sheet2"} {
		fmt.Fprintf(&content, `<table:table table:name="%s">`, sheet)
		for _, row := range testSheets[sheet] {
			content.WriteString(`<table:table-row>`)
			for _, value := range row {
				switch v := value.(type) {
				case nil:
					content.WriteString(`<table:table-cell/>`)
				case float64:
					fmt.Fprintf(&content, `<table:table-cell office:value-type="float" office:value="%v"><text:p>%v</text:p></table:table-cell>`, v, v)
				case string:
					fmt.Fprintf(&content, `<table:table-cell office:value-type="string"><text:p>%s</text:p></table:table-cell>`, v)
				}
			}
			content.WriteString(`<table:table-cell table:number-columns-repeated="1000"/></table:table-row>`)
		}
		content.WriteString(`<table:table-row table:number-rows-repeated="1000"><table:table-cell table:number-columns-repeated="1024"/></table:table-row>`)
		content.WriteString(`</table:table>`)
	}
	content.WriteString(`</office:spreadsheet></office:body></office:document-content>`)

	settings := `<?xml version="1.0" encoding="UTF-8"?>
<office:document-settings xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:config="urn:oasis:names:tc:opendocument:xmlns:config:1.0">
<office:settings><config:config-item-set config:name="ooo:view-settings">
<config:config-item config:name="ActiveTable" config:type="string">sheet2</config:config-item>
</config:config-item-set></office:settings></office:document-settings>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte("application/vnd.oasis.opendocument.spreadsheet"))
	require.NoError(t, err)
	for name, data := range map[string]string{"content.xml": content.String(), "settings.xml": settings} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return &fs.MemFile{FileName: filename, FileData: buf.Bytes()}
}

// newTestXLS returns testdata/test.xls holding the testSheets
// with sheet2 as active sheet.
func newTestXLS(t *testing.T, filename string) fs.FileReader {
	t.Helper()

	data, err := os.ReadFile("testdata/test.xls")
	require.NoError(t, err)
	return &fs.MemFile{FileName: filename, FileData: data}
}

// newTestCSV returns sheet2 of testSheets as CSV file.
func newTestCSV(filename string) fs.FileReader {
	return &fs.MemFile{FileName: filename, FileData: []byte("xxx;yyy;zzz\r\n1;2;3\r\n4;5;6\r\n")}
}

// zipOf returns a ZIP archive with empty files of names.
func zipOf(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		_, err := zw.Create(name)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
