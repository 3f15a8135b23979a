package sheettable

import "fmt"

// ReadGrid reads a window of sheet as Grid without any header interpretation.
//
// Reading starts at the zero based row firstRow and column firstCol.
// A positive maxRows limits the number of rows, a positive maxCols
// the number of columns of every row. Zero means unlimited.
//
// Trailing empty cells of every row are removed (see ReadRow),
// then all rows are padded with nil values to the length of the longest row.
func ReadGrid(sheet Sheet, firstRow, firstCol, maxRows, maxCols int) (Grid, error) {
	if firstRow < 0 || firstCol < 0 || maxRows < 0 || maxCols < 0 {
		return nil, fmt.Errorf("negative grid window: firstRow %d, firstCol %d, maxRows %d, maxCols %d", firstRow, firstCol, maxRows, maxCols)
	}

	var grid Grid
	for r := firstRow; r < sheet.NumRows(); r++ {
		if maxRows > 0 && len(grid) == maxRows {
			break
		}
		cells, err := sheet.RowCells(r)
		if err != nil {
			return nil, err
		}
		row := ReadRow(cells, firstCol)
		if maxCols > 0 && len(row) > maxCols {
			row = row[:maxCols]
		}
		grid = append(grid, row)
	}

	numCols := grid.NumCols()
	for i, row := range grid {
		if len(row) < numCols {
			padded := make(Row, numCols)
			copy(padded, row)
			grid[i] = padded
		}
	}
	return grid, nil
}
