package sheettable

import "fmt"

// Sheet is one worksheet of a spreadsheet file.
type Sheet interface {
	// Title returns the name of the sheet.
	Title() string

	// NumRows returns the number of rows up to the last non-empty row.
	NumRows() int

	// RowCells returns the raw values of all cell positions of the row
	// with the zero based index starting at column 0.
	// Empty positions are included as nil values,
	// trailing nil values are allowed.
	RowCells(row int) ([]any, error)
}

// MemSheet is a Sheet with all cell values held in memory.
type MemSheet struct {
	Name  string
	Cells [][]any
}

var _ Sheet = new(MemSheet)

// NewMemSheet returns a MemSheet for rows of cell values.
// Empty rows at the end are removed.
func NewMemSheet(name string, rows [][]any) *MemSheet {
	for len(rows) > 0 && len(ReadRow(rows[len(rows)-1], 0)) == 0 {
		rows = rows[:len(rows)-1]
	}
	return &MemSheet{Name: name, Cells: rows}
}

func (s *MemSheet) Title() string { return s.Name }

func (s *MemSheet) NumRows() int { return len(s.Cells) }

func (s *MemSheet) RowCells(row int) ([]any, error) {
	if row < 0 || row >= len(s.Cells) {
		return nil, fmt.Errorf("row index %d out of bounds [0..%d)", row, len(s.Cells))
	}
	return s.Cells[row], nil
}
