// Package sheettable reads tabular data out of spreadsheet files
// (CSV, XLS, XLSX, ODS) into headerless grids or header-mapped records.
//
// A spreadsheet file is resolved to one of its sheets with OpenSheet,
// which dispatches to the format packages csvtable, xlstable, exceltable,
// and odstable. The sheet contents are held in memory, every file
// is closed before OpenSheet returns.
//
// ReadGrid returns a rectangular window of a sheet without any
// header interpretation:
//
//	sheet, err := sheettable.OpenSheet(fs.File("data.xlsx"), sheettable.FormatAuto, sheettable.SheetName("Prices"))
//	if err != nil {
//	    return err
//	}
//	grid, err := sheettable.ReadGrid(sheet, 1, 1, 10, 5)
//
// ReadTable treats the first row of the window as header
// and maps every following row onto a list of field names:
//
//	records, err := sheettable.ReadTable(fs.File("data.ods"), sheettable.FormatAuto, sheettable.ActiveSheet, 0, 0, []string{"id", "name"}, false)
//	if err != nil {
//	    return err
//	}
//	for _, record := range records {
//	    id, _ := record.Get("id")
//	    fmt.Println(id)
//	}
//
// Cell values are nil for empty cells, float64 for numbers,
// bool for booleans, and string for everything else.
package sheettable
