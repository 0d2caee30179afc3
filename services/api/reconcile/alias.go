package reconcile

import "cmp"

// CollapseAliases keeps one record per AliasKey, ignoring which station code
// or name it was stored under. It must run on the output of
// ResolveConflicts, never before it: an alias that carries a different value
// is a conflict in its own right. Such groups are still resolved by the same
// survivor rule and are returned with ScopeAlias.
//
// Survivors of one station all carry the same label afterwards, so the pivot
// yields a single row per station, date and depth. The label is that of the
// most recently entered survivor, the smallest code and name on ties.
func CollapseAliases(records []Observation, tb TieBreak) ([]Observation, []ConflictGroup) {
	kept, conflicts := resolveGroups(records, tb, ScopeAlias, "", aliasKeyOf, unlabelledIdentity)

	labels := make(map[int64]Observation)
	for _, rec := range kept {
		cur, ok := labels[rec.StationID]
		if !ok || preferLabel(rec, cur) {
			labels[rec.StationID] = rec
		}
	}
	for i := range kept {
		l := labels[kept[i].StationID]
		kept[i].StationCode, kept[i].StationName = l.StationCode, l.StationName
	}
	return kept, conflicts
}

func preferLabel(a, b Observation) bool {
	if c := compareTimePtr(a.EnteredDate, b.EnteredDate); c != 0 {
		return c > 0
	}
	if c := cmp.Compare(a.StationCode, b.StationCode); c != 0 {
		return c < 0
	}
	return a.StationName < b.StationName
}

func unlabelledIdentity(o Observation) IdentityKey {
	k := o.Identity()
	k.StationCode, k.StationName = "", ""
	return k
}
