package reconcile

import (
	"encoding/json"
	"strconv"
)

// CellKind distinguishes the three shapes a present cell can take. A missing
// cell is not a Cell at all: it is absent from WideRow.Values.
type CellKind uint8

const (
	// CellNull is a record whose value is null in the store.
	CellNull CellKind = iota
	// CellNumber is a plain numeric value, flags dropped.
	CellNumber
	// CellText is a value with its LOD flag folded in, e.g. "<0.5".
	CellText
)

// Cell is one populated wide-table cell.
type Cell struct {
	kind   CellKind
	number float64
	text   string
}

// NullCell is a cell whose record exists but has no value.
func NullCell() Cell { return Cell{kind: CellNull} }

// NumberCell holds a bare numeric value.
func NumberCell(v float64) Cell { return Cell{kind: CellNumber, number: v} }

// TextCell holds a value rendered as text, usually with its flag.
func TextCell(s string) Cell { return Cell{kind: CellText, text: s} }

// Kind reports which of the three cell forms c is.
func (c Cell) Kind() CellKind { return c.kind }

// IsNull reports whether c is a NullCell.
func (c Cell) IsNull() bool { return c.kind == CellNull }

// Number returns the numeric value of a CellNumber.
func (c Cell) Number() (float64, bool) {
	return c.number, c.kind == CellNumber
}

// Text returns the text of a CellText.
func (c Cell) Text() (string, bool) {
	return c.text, c.kind == CellText
}

// String renders the cell for text outputs; null renders as "".
func (c Cell) String() string {
	switch c.kind {
	case CellNumber:
		return FormatNumber(c.number)
	case CellText:
		return c.text
	}
	return ""
}

// MarshalJSON emits a JSON number, string or null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumber:
		return json.Marshal(c.number)
	case CellText:
		return json.Marshal(c.text)
	}
	return []byte("null"), nil
}

// FormatNumber prints v in its shortest exact decimal form: 0.5, 12, 1250.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
