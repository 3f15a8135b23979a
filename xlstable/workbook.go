// Package xlstable reads legacy Excel 97-2003 workbooks (.xls, BIFF8)
// as rows of typed cell values.
//
// The Workbook stream is read from the compound file container
// with github.com/richardlehane/mscfb and its BIFF records are
// decoded without interpreting number formats.
// Cells are returned with the following types:
//   - nil for empty and blank cells
//   - float64 for numbers, dates are Excel serial numbers
//     in the date system returned by Workbook.DateMode
//   - bool for boolean cells
//   - string for text cells and the text of error values like "#N/A"
//
// Formula cells are returned with their cached result.
package xlstable

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/richardlehane/mscfb"

	"github.com/domonda/go-sheettable/xldate"
)

var (
	// ErrNoWorkbookStream is returned for compound files without a Workbook stream
	ErrNoWorkbookStream = errors.New("xls: no Workbook stream in compound file")

	// ErrUnsupportedVersion is returned for workbooks older than Excel 97 (BIFF8)
	ErrUnsupportedVersion = errors.New("xls: only BIFF8 workbooks of Excel 97 and later are supported")

	// ErrEncrypted is returned for password protected workbooks
	ErrEncrypted = errors.New("xls: workbook is encrypted")

	// ErrSheetNotExist is returned by SheetCells for unknown sheet names
	ErrSheetNotExist = errors.New("xls: sheet does not exist")
)

// Workbook is a parsed .xls workbook.
// Sheets are read on demand from the workbook stream.
type Workbook struct {
	stream   []byte
	sheets   []boundSheet
	active   int
	dateMode int
	sst      []string
}

type boundSheet struct {
	name   string
	offset int
}

// OpenWorkbook reads the workbook globals of the .xls file data.
func OpenWorkbook(data []byte) (wb *Workbook, err error) {
	defer recoverError(&err)

	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}
	w := &Workbook{stream: stream}
	if err = w.readGlobals(); err != nil {
		return nil, err
	}
	return w, nil
}

// recoverError returns panics of malformed files as error.
func recoverError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("xls: can't parse workbook: %v", r)
	}
}

// workbookStream returns the Workbook stream of the compound file.
// Excel 5 workbooks use the stream name "Book".
func workbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xls: %w", err)
	}
	book := false
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			if book {
				return nil, ErrUnsupportedVersion
			}
			return nil, ErrNoWorkbookStream
		}
		if err != nil {
			return nil, fmt.Errorf("xls: %w", err)
		}
		if len(entry.Path) > 0 {
			continue
		}
		switch entry.Name {
		case "Workbook":
			if entry.Size > int64(len(data)) {
				return nil, fmt.Errorf("xls: Workbook stream size %d exceeds file size", entry.Size)
			}
			stream := make([]byte, entry.Size)
			if _, err := io.ReadFull(entry, stream); err != nil {
				return nil, fmt.Errorf("xls: can't read Workbook stream: %w", err)
			}
			return stream, nil
		case "Book":
			book = true
		}
	}
}

func (wb *Workbook) readGlobals() error {
	r := &recordReader{stream: wb.stream}
	rec, err := r.next()
	if err != nil {
		return err
	}
	if err = checkBOF(rec, bofWorkbook); err != nil {
		return err
	}
	window1 := false
	for {
		rec, err = r.next()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("xls: missing EOF record of workbook globals: %w", errTruncated)
		}
		if err != nil {
			return err
		}
		data := rec.data()
		switch rec.id {
		case recEOF:
			if wb.active >= len(wb.sheets) {
				wb.active = 0
			}
			return nil

		case recFilePass:
			return ErrEncrypted

		case recDateMode:
			if len(data) < 2 {
				return rec.errorf("%w", errTruncated)
			}
			if binary.LittleEndian.Uint16(data) == 1 {
				wb.dateMode = xldate.DateMode1904
			}

		case recWindow1:
			// the first WINDOW1 record holds the selected sheet
			if window1 {
				continue
			}
			if len(data) < 12 {
				return rec.errorf("%w", errTruncated)
			}
			wb.active = int(binary.LittleEndian.Uint16(data[10:]))
			window1 = true

		case recBoundSheet:
			if len(data) < 6 {
				return rec.errorf("%w", errTruncated)
			}
			c := newChunkReader([][]byte{data[6:]})
			name, err := c.shortString()
			if err != nil {
				return rec.errorf("sheet name: %w", err)
			}
			offset := int(binary.LittleEndian.Uint32(data))
			if offset >= len(wb.stream) {
				return rec.errorf("offset %d of sheet %q exceeds stream", offset, name)
			}
			wb.sheets = append(wb.sheets, boundSheet{name: name, offset: offset})

		case recSST:
			if wb.sst, err = readSST(rec); err != nil {
				return err
			}
		}
	}
}

func checkBOF(rec *record, substream uint16) error {
	if rec.id != recBOF {
		return rec.errorf("expected BOF record")
	}
	data := rec.data()
	if len(data) < 4 {
		return rec.errorf("%w", errTruncated)
	}
	if binary.LittleEndian.Uint16(data) != biff8Version {
		return ErrUnsupportedVersion
	}
	if substream != 0 && binary.LittleEndian.Uint16(data[2:]) != substream {
		return rec.errorf("unexpected substream type 0x%04X", binary.LittleEndian.Uint16(data[2:]))
	}
	return nil
}

// SheetNames returns the names of all sheets including chart and macro sheets.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, sheet := range wb.sheets {
		names[i] = sheet.name
	}
	return names
}

// ActiveSheetIndex returns the index of the sheet
// that was selected when the workbook was saved.
func (wb *Workbook) ActiveSheetIndex() int { return wb.active }

// DateMode returns xldate.DateMode1900 or xldate.DateMode1904
// as the date system of the serial numbers of date cells.
func (wb *Workbook) DateMode() int { return wb.dateMode }

// SheetCells returns the cells of all rows of sheet.
// Missing rows are returned as nil rows, every row starts at column A.
func (wb *Workbook) SheetCells(sheet string) (cells [][]any, err error) {
	defer recoverError(&err)

	for _, s := range wb.sheets {
		if s.name == sheet {
			return wb.readSheet(s.offset)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSheetNotExist, sheet)
}

// Close is a no-op, the workbook stream is held in memory.
func (wb *Workbook) Close() error { return nil }

// readSheet reads the cell records of the sheet substream at offset.
// Records of embedded substreams like charts are skipped.
func (wb *Workbook) readSheet(offset int) ([][]any, error) {
	r := &recordReader{stream: wb.stream, pos: offset}
	rec, err := r.next()
	if err != nil {
		return nil, err
	}
	if err = checkBOF(rec, 0); err != nil {
		return nil, err
	}
	var rows [][]any
	depth := 1
	// cell of a formula with a string result
	// that follows in a STRING record
	var pending *[2]int
	set := func(row, col int, value any) {
		if row >= len(rows) {
			rows = append(rows, make([][]any, row+1-len(rows))...)
		}
		if col >= len(rows[row]) {
			rows[row] = append(rows[row], make([]any, col+1-len(rows[row]))...)
		}
		rows[row][col] = value
	}

	for {
		rec, err = r.next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("xls: missing EOF record of sheet: %w", errTruncated)
		}
		if err != nil {
			return nil, err
		}
		switch rec.id {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
			if depth == 0 {
				return rows, nil
			}
			continue
		}
		if depth != 1 {
			continue
		}

		data := rec.data()
		switch rec.id {
		case recNumber:
			if len(data) < 14 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			set(row, col, math.Float64frombits(binary.LittleEndian.Uint64(data[6:])))

		case recRK:
			if len(data) < 10 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			set(row, col, decodeRK(binary.LittleEndian.Uint32(data[6:])))

		case recMulRK:
			if len(data) < 6 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			// the last 2 bytes hold the last column
			for i := 4; i+6 <= len(data)-2; i += 6 {
				set(row, col, decodeRK(binary.LittleEndian.Uint32(data[i+2:])))
				col++
			}

		case recLabelSST:
			if len(data) < 10 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			index := int(binary.LittleEndian.Uint32(data[6:]))
			if index >= len(wb.sst) {
				return nil, rec.errorf("shared string index %d out of range", index)
			}
			set(row, col, wb.sst[index])

		case recLabel:
			if len(data) < 6 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			chunks := append([][]byte{data[6:]}, rec.chunks[1:]...)
			str, err := newChunkReader(chunks).unicodeString()
			if err != nil {
				return nil, rec.errorf("%w", err)
			}
			set(row, col, str)

		case recBoolErr:
			if len(data) < 8 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			if data[7] != 0 {
				set(row, col, errorText(data[6]))
			} else {
				set(row, col, data[6] != 0)
			}

		case recFormula:
			if len(data) < 14 {
				return nil, rec.errorf("%w", errTruncated)
			}
			row, col := cellPos(data)
			result := data[6:14]
			if binary.LittleEndian.Uint16(result[6:]) != 0xFFFF {
				set(row, col, math.Float64frombits(binary.LittleEndian.Uint64(result)))
				continue
			}
			switch result[0] {
			case 0x00:
				pending = &[2]int{row, col}
			case 0x01:
				set(row, col, result[2] != 0)
			case 0x02:
				set(row, col, errorText(result[2]))
			}

		case recString:
			if pending == nil {
				continue
			}
			str, err := newChunkReader(rec.chunks).unicodeString()
			if err != nil {
				return nil, rec.errorf("%w", err)
			}
			if str != "" {
				set(pending[0], pending[1], str)
			}
			pending = nil
		}
	}
}

func cellPos(data []byte) (row, col int) {
	return int(binary.LittleEndian.Uint16(data)), int(binary.LittleEndian.Uint16(data[2:]))
}
