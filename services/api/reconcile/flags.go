package reconcile

// Entry is a reconciled record reduced to its wide-table coordinates.
type Entry struct {
	Row    RowKey
	Column string
	Cell   Cell
}

// MergeFlags converts records into pivot entries. With includeFlags the flag
// (empty when absent) is prepended to the value's text, so flag "<" and value
// 0.5 become "<0.5" and an unflagged 12 becomes "12". Without it flags are
// dropped and the value stays numeric. A null value is a null cell either way.
func MergeFlags(records []Observation, includeFlags bool) []Entry {
	out := make([]Entry, 0, len(records))
	for _, rec := range records {
		out = append(out, Entry{
			Row:    rowKeyOf(rec),
			Column: rec.Column(),
			Cell:   cellOf(rec, includeFlags),
		})
	}
	return out
}

func cellOf(rec Observation, includeFlags bool) Cell {
	if rec.Value == nil {
		return NullCell()
	}
	if !includeFlags {
		return NumberCell(*rec.Value)
	}
	flag := ""
	if rec.Flag != nil {
		flag = *rec.Flag
	}
	return TextCell(flag + FormatNumber(*rec.Value))
}
