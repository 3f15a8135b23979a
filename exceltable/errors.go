package exceltable

import (
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotExist is re-exported from excelize and indicates that a requested
// sheet does not exist in a workbook.
//
// Example:
//
//	var sheetErr exceltable.ErrSheetNotExist
//	if errors.As(err, &sheetErr) {
//	    fmt.Printf("Sheet not found: %s\n", sheetErr.SheetName)
//	}
type ErrSheetNotExist = excelize.ErrSheetNotExist
