package reconcile

// CollapseExact drops every record that repeats an earlier one field for
// field. The first occurrence is kept and input order is preserved.
func CollapseExact(records []Observation) []Observation {
	seen := make(map[recordKey]struct{}, len(records))
	out := make([]Observation, 0, len(records))
	for _, rec := range records {
		k := recordKeyOf(rec)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}
