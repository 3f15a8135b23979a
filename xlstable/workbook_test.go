package xlstable

import (
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-sheettable/xldate"
)

func openTestWorkbook(t *testing.T, filename string) *Workbook {
	t.Helper()

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	wb, err := OpenWorkbook(data)
	require.NoError(t, err)
	return wb
}

func TestOpenWorkbook(t *testing.T) {
	wb := openTestWorkbook(t, "testdata/types.xls")
	require.Equal(t, []string{"Types", "Other"}, wb.SheetNames())
	require.Equal(t, 1, wb.ActiveSheetIndex())
	require.Equal(t, xldate.DateMode1904, wb.DateMode())
	require.NoError(t, wb.Close())

	wb = openTestWorkbook(t, "testdata/sheets.xls")
	require.Equal(t, []string{"Test sheet 1", "Test sheet 2", "Sheet3"}, wb.SheetNames())
	require.Equal(t, 0, wb.ActiveSheetIndex())
	require.Equal(t, xldate.DateMode1900, wb.DateMode())
}

func TestSheetCells(t *testing.T) {
	wb := openTestWorkbook(t, "testdata/types.xls")

	cells, err := wb.SheetCells("Types")
	require.NoError(t, err)
	want := [][]any{
		{"Kind", "Value"},
		{"float", 3.25},
		{"int", 42.0},
		{"negative", -7.0},
		{"cents", 12.34},
		{"float rk", 1.5},
		{"date", 45292.5},
		{"sum", 45.5},
		{"concat", "ab"},
		{"check", true},
		{"div", "#DIV/0!"},
		{"flag", false},
		{"na", "#N/A"},
		{"blank"},
		nil,
		{"Grüße", nil, "日本"},
		{"mulrk", 1.0, 2.0, 3.5},
		{"split", "Straße nach Zürich €100"},
		{"empty"},
		{"rich", "gap"},
	}
	require.Equal(t, want, cells)

	date, err := xldate.ToTime(cells[6][1].(float64), wb.DateMode())
	require.NoError(t, err)
	require.Equal(t, time.Date(2028, 1, 2, 12, 0, 0, 0, time.UTC), date)

	// the number of the embedded chart substream is not a cell
	cells, err = wb.SheetCells("Other")
	require.NoError(t, err)
	require.Equal(t, [][]any{{1.0}, {nil, 2.0}}, cells)

	_, err = wb.SheetCells("Missing")
	require.ErrorIs(t, err, ErrSheetNotExist)
}

func TestSheetCellsExcelFile(t *testing.T) {
	wb := openTestWorkbook(t, "testdata/sheets.xls")

	cells, err := wb.SheetCells("Test sheet 1")
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{"Test1", "Lorem", "Ipsum"},
		{"Avocado", 1.0, 2.0},
		{nil, 3.0, 5.0},
		{nil, 4.0, 7.0},
	}, cells)

	cells, err = wb.SheetCells("Test sheet 2")
	require.NoError(t, err)
	require.Equal(t, [][]any{{"Test2"}}, cells)

	cells, err = wb.SheetCells("Sheet3")
	require.NoError(t, err)
	require.Empty(t, cells)
}

func TestOpenWorkbookInvalidData(t *testing.T) {
	_, err := OpenWorkbook([]byte("this is not an xls file"))
	require.Error(t, err)

	data, err := os.ReadFile("testdata/types.xls")
	require.NoError(t, err)
	_, err = OpenWorkbook(data[:1024])
	require.Error(t, err, "truncated compound file")
}

// biffRecord returns the bytes of a BIFF record.
func biffRecord(id uint16, data ...byte) []byte {
	rec := binary.LittleEndian.AppendUint16(nil, id)
	rec = binary.LittleEndian.AppendUint16(rec, uint16(len(data)))
	return append(rec, data...)
}

func sheetBOF() []byte {
	return biffRecord(recBOF, 0x00, 0x06, 0x10, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
}

func TestSheetCellsMalformed(t *testing.T) {
	concat := func(records ...[]byte) (stream []byte) {
		for _, rec := range records {
			stream = append(stream, rec...)
		}
		return stream
	}
	tests := []struct {
		name   string
		stream []byte
		offset int
	}{
		{name: "missing EOF", stream: concat(sheetBOF(), biffRecord(recRK, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0))},
		{name: "truncated record", stream: concat(sheetBOF(), biffRecord(recNumber, 0, 0, 0, 0)[:6])},
		{name: "short NUMBER", stream: concat(sheetBOF(), biffRecord(recNumber, 0, 0, 0, 0), biffRecord(recEOF))},
		{name: "shared string out of range", stream: concat(sheetBOF(), biffRecord(recLabelSST, 0, 0, 0, 0, 0, 0, 5, 0, 0, 0), biffRecord(recEOF))},
		{name: "truncated LABEL", stream: concat(sheetBOF(), biffRecord(recLabel, 0, 0, 0, 0, 0, 0, 9, 0, 0, 'a'), biffRecord(recEOF))},
		{name: "no BOF", stream: concat(biffRecord(recEOF))},
		{name: "BIFF5 BOF", stream: concat(biffRecord(recBOF, 0x00, 0x05, 0x10, 0x00), biffRecord(recEOF))},
		{name: "offset out of stream", stream: concat(sheetBOF(), biffRecord(recEOF)), offset: -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := &Workbook{
				stream: tt.stream,
				sheets: []boundSheet{{name: "Sheet", offset: tt.offset}},
			}
			cells, err := wb.SheetCells("Sheet")
			require.Error(t, err)
			require.Nil(t, cells)
		})
	}
}
