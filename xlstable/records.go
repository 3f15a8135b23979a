package xlstable

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

// BIFF8 record identifiers
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recDateMode   = 0x0022
	recFilePass   = 0x002F
	recContinue   = 0x003C
	recWindow1    = 0x003D
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recBOF        = 0x0809
)

// BOF versions and substream types
const (
	biff8Version   = 0x0600
	bofWorkbook    = 0x0005
	maxRecordSize  = 8224
	recordHeadSize = 4
)

// errorTexts maps the BIFF error codes of BOOLERR and FORMULA
// records to the text Excel displays.
var errorTexts = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

func errorText(code byte) string {
	if text, ok := errorTexts[code]; ok {
		return text
	}
	return fmt.Sprintf("#ERR%d!", code)
}

// decodeRK decodes the compressed number format of RK and MULRK records.
// Bit 0 marks a value multiplied by 100, bit 1 a signed 30 bit integer,
// otherwise the upper 30 bits are the upper bits of a float64.
func decodeRK(rk uint32) float64 {
	var value float64
	if rk&0x02 != 0 {
		value = float64(int32(rk) >> 2)
	} else {
		value = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		value /= 100
	}
	return value
}

// record is a BIFF record with the data of all its CONTINUE records.
type record struct {
	id     uint16
	offset int
	chunks [][]byte
}

func (rec *record) data() []byte { return rec.chunks[0] }

func (rec *record) errorf(format string, args ...any) error {
	return fmt.Errorf("xls: record 0x%04X at offset %d: %w", rec.id, rec.offset, fmt.Errorf(format, args...))
}

// recordReader iterates the records of a workbook stream.
type recordReader struct {
	stream []byte
	pos    int
}

// next returns the record at the current position
// joined with the CONTINUE records following it.
// io.EOF is returned at the end of the stream.
func (r *recordReader) next() (*record, error) {
	if r.pos >= len(r.stream) {
		return nil, io.EOF
	}
	rec := &record{offset: r.pos}
	id, data, err := r.read()
	if err != nil {
		return nil, err
	}
	rec.id = id
	rec.chunks = [][]byte{data}
	for r.pos+recordHeadSize <= len(r.stream) && binary.LittleEndian.Uint16(r.stream[r.pos:]) == recContinue {
		_, data, err = r.read()
		if err != nil {
			return nil, err
		}
		rec.chunks = append(rec.chunks, data)
	}
	return rec, nil
}

func (r *recordReader) read() (id uint16, data []byte, err error) {
	if r.pos+recordHeadSize > len(r.stream) {
		return 0, nil, fmt.Errorf("xls: truncated record header at offset %d", r.pos)
	}
	id = binary.LittleEndian.Uint16(r.stream[r.pos:])
	size := int(binary.LittleEndian.Uint16(r.stream[r.pos+2:]))
	start := r.pos + recordHeadSize
	if size > maxRecordSize || start+size > len(r.stream) {
		return 0, nil, fmt.Errorf("xls: record 0x%04X at offset %d with size %d exceeds stream", id, r.pos, size)
	}
	r.pos = start + size
	return id, r.stream[start : start+size], nil
}

var errTruncated = io.ErrUnexpectedEOF

// chunkReader reads little endian values and strings
// from the data chunks of a record and its CONTINUE records.
type chunkReader struct {
	chunks [][]byte
	cur    []byte
}

func newChunkReader(chunks [][]byte) *chunkReader {
	return &chunkReader{chunks: chunks[1:], cur: chunks[0]}
}

// fill moves to the next chunk if the current one is exhausted.
func (c *chunkReader) fill() bool {
	for len(c.cur) == 0 {
		if len(c.chunks) == 0 {
			return false
		}
		c.cur, c.chunks = c.chunks[0], c.chunks[1:]
	}
	return true
}

func (c *chunkReader) readUint8() (byte, error) {
	if !c.fill() {
		return 0, errTruncated
	}
	b := c.cur[0]
	c.cur = c.cur[1:]
	return b, nil
}

func (c *chunkReader) readUint16() (uint16, error) {
	lo, err := c.readUint8()
	if err != nil {
		return 0, err
	}
	hi, err := c.readUint8()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func (c *chunkReader) readUint32() (uint32, error) {
	lo, err := c.readUint16()
	if err != nil {
		return 0, err
	}
	hi, err := c.readUint16()
	if err != nil {
		return 0, err
	}
	return uint32(lo) | uint32(hi)<<16, nil
}

func (c *chunkReader) skip(n int) error {
	for n > 0 {
		if !c.fill() {
			return errTruncated
		}
		k := min(n, len(c.cur))
		c.cur = c.cur[k:]
		n -= k
	}
	return nil
}

// chars reads n characters, one byte each (compressed)
// or UTF-16 code units if wide is true.
// Character data continued in the next chunk starts
// with a new option byte for the compression.
func (c *chunkReader) chars(n int, wide bool) (string, error) {
	units := make([]uint16, 0, n)
	for len(units) < n {
		if len(c.cur) == 0 {
			if len(c.chunks) == 0 {
				return "", errTruncated
			}
			c.cur, c.chunks = c.chunks[0], c.chunks[1:]
			if len(c.cur) == 0 {
				return "", errTruncated
			}
			wide = c.cur[0]&0x01 != 0
			c.cur = c.cur[1:]
			continue
		}
		if wide {
			if len(c.cur) < 2 {
				return "", errTruncated
			}
			units = append(units, binary.LittleEndian.Uint16(c.cur))
			c.cur = c.cur[2:]
		} else {
			units = append(units, uint16(c.cur[0]))
			c.cur = c.cur[1:]
		}
	}
	return string(utf16.Decode(units)), nil
}

// string flags of XLUnicodeRichExtendedString
const (
	strHighByte = 0x01
	strExtSt    = 0x04
	strRichSt   = 0x08
)

// unicodeString reads a XLUnicodeString with a 16 bit length
// as used by LABEL and STRING records.
func (c *chunkReader) unicodeString() (string, error) {
	n, err := c.readUint16()
	if err != nil {
		return "", err
	}
	flags, err := c.readUint8()
	if err != nil {
		return "", err
	}
	return c.chars(int(n), flags&strHighByte != 0)
}

// shortString reads a ShortXLUnicodeString with an 8 bit length
// as used for sheet names.
func (c *chunkReader) shortString() (string, error) {
	n, err := c.readUint8()
	if err != nil {
		return "", err
	}
	flags, err := c.readUint8()
	if err != nil {
		return "", err
	}
	return c.chars(int(n), flags&strHighByte != 0)
}

// richString reads a XLUnicodeRichExtendedString of the shared string table,
// formatting runs and phonetic data are skipped.
func (c *chunkReader) richString() (string, error) {
	n, err := c.readUint16()
	if err != nil {
		return "", err
	}
	flags, err := c.readUint8()
	if err != nil {
		return "", err
	}
	var runs uint16
	if flags&strRichSt != 0 {
		if runs, err = c.readUint16(); err != nil {
			return "", err
		}
	}
	var ext uint32
	if flags&strExtSt != 0 {
		if ext, err = c.readUint32(); err != nil {
			return "", err
		}
	}
	str, err := c.chars(int(n), flags&strHighByte != 0)
	if err != nil {
		return "", err
	}
	if err = c.skip(4*int(runs) + int(ext)); err != nil {
		return "", err
	}
	return str, nil
}

// readSST reads the shared string table of a SST record.
func readSST(rec *record) ([]string, error) {
	c := newChunkReader(rec.chunks)
	if _, err := c.readUint32(); err != nil {
		return nil, rec.errorf("%w", err)
	}
	unique, err := c.readUint32()
	if err != nil {
		return nil, rec.errorf("%w", err)
	}
	// every string needs at least 3 bytes
	sst := make([]string, 0, min(int(unique), len(rec.data())/3+1))
	for i := 0; i < int(unique); i++ {
		str, err := c.richString()
		if err != nil {
			return nil, rec.errorf("shared string %d: %w", i, err)
		}
		sst = append(sst, str)
	}
	return sst, nil
}
