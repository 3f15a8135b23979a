package sheettable

import "strconv"

type selectorKind int

const (
	selectActive selectorKind = iota
	selectIndex
	selectName
)

// SheetSelector selects a sheet of a spreadsheet file
// by zero based index, by name, or as the active sheet.
// The zero value selects the active sheet.
type SheetSelector struct {
	kind  selectorKind
	index int
	name  string
}

// ActiveSheet selects the sheet that was active when the file was saved.
var ActiveSheet SheetSelector

// SheetIndex selects a sheet by its zero based index.
func SheetIndex(index int) SheetSelector {
	return SheetSelector{kind: selectIndex, index: index}
}

// SheetName selects a sheet by its name.
func SheetName(name string) SheetSelector {
	return SheetSelector{kind: selectName, name: name}
}

// SelectSheet returns a SheetSelector for a dynamically typed selector:
// an int selects by index, a string by name,
// nil or false select the active sheet.
// Any other value results in an InvalidSelectorError.
func SelectSheet(selector any) (SheetSelector, error) {
	switch s := selector.(type) {
	case nil:
		return ActiveSheet, nil
	case int:
		sel := SheetIndex(s)
		return sel, sel.Validate()
	case string:
		return SheetName(s), nil
	case bool:
		if !s {
			return ActiveSheet, nil
		}
	case SheetSelector:
		return s, s.Validate()
	}
	return ActiveSheet, InvalidSelectorError{Selector: selector}
}

// Validate returns an InvalidSelectorError for negative indices.
func (s SheetSelector) Validate() error {
	if s.kind == selectIndex && s.index < 0 {
		return InvalidSelectorError{Selector: s.index}
	}
	return nil
}

// IsActive reports if s selects the active sheet.
func (s SheetSelector) IsActive() bool { return s.kind == selectActive }

// Index returns the selected index and true if s selects by index.
func (s SheetSelector) Index() (int, bool) { return s.index, s.kind == selectIndex }

// Name returns the selected name and true if s selects by name.
func (s SheetSelector) Name() (string, bool) { return s.name, s.kind == selectName }

func (s SheetSelector) String() string {
	switch s.kind {
	case selectIndex:
		return "#" + strconv.Itoa(s.index)
	case selectName:
		return strconv.Quote(s.name)
	}
	return "<ActiveSheet>"
}
