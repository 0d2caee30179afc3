package reconcile

import (
	"fmt"
	"slices"
	"strings"
)

// TieBreak decides the survivor of a duplicate group in which no record has
// an entered date to rank it by.
type TieBreak int

const (
	// TieBreakLastSeen keeps the last record in fetch order.
	TieBreakLastSeen TieBreak = iota
	// TieBreakSmallestValue keeps the smallest value (nulls last, then flag),
	// which does not depend on fetch order.
	TieBreakSmallestValue
)

func (t TieBreak) String() string {
	switch t {
	case TieBreakSmallestValue:
		return "smallest_value"
	default:
		return "last_seen"
	}
}

// ParseTieBreak accepts "last_seen" or "smallest_value". Empty means last_seen.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last_seen":
		return TieBreakLastSeen, nil
	case "smallest_value":
		return TieBreakSmallestValue, nil
	}
	return TieBreakLastSeen, fmt.Errorf("unknown tie break %q", s)
}

// ConflictScope tells which stage found a conflict.
type ConflictScope string

const (
	ScopeIdentity  ConflictScope = "identity"
	ScopeAlias     ConflictScope = "alias"
	// ScopeReentered marks identity groups whose records agree on value and
	// flag and differ only in entered date.
	ScopeReentered ConflictScope = "reentered"
)

// ConflictGroup lists every record that shared one measurement key.
// Records are ordered by entered date, nulls first, then fetch order. For
// alias-scope groups the station label in Key is empty.
type ConflictGroup struct {
	Scope           ConflictScope `json:"scope"`
	Key             IdentityKey   `json:"key"`
	Records         []Observation `json:"records"`
	Kept            Observation   `json:"kept"`
	ArbitraryWinner bool          `json:"arbitrary_winner"`
}

// Disagrees reports whether the group's records carry different values or
// flags.
func (g ConflictGroup) Disagrees() bool {
	return g.Scope != ScopeReentered
}

// CountDisagreeing returns how many groups hold disagreeing records.
func CountDisagreeing(groups []ConflictGroup) int {
	n := 0
	for _, g := range groups {
		if g.Disagrees() {
			n++
		}
	}
	return n
}

// ResolveConflicts keeps one record per IdentityKey. The survivor is the
// record with the latest entered date; without any entered date tb decides.
// Every group of two or more records is reported, sorted by key: groups with
// more than one distinct value/flag pair under ScopeIdentity, the rest under
// ScopeReentered.
func ResolveConflicts(records []Observation, tb TieBreak) ([]Observation, []ConflictGroup) {
	return resolveGroups(records, tb, ScopeIdentity, ScopeReentered, identityKeyOf, Observation.Identity)
}

// resolveGroups keeps one survivor per key. Disagreeing groups are reported
// under scope, agreeing ones under agreeScope unless it is empty.
func resolveGroups[K comparable](records []Observation, tb TieBreak, scope, agreeScope ConflictScope,
	keyOf func(Observation) K, reportKey func(Observation) IdentityKey) ([]Observation, []ConflictGroup) {

	var order []K
	groups := make(map[K][]int, len(records))
	for i, rec := range records {
		k := keyOf(rec)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	keep := make([]bool, len(records))
	var conflicts []ConflictGroup
	for _, k := range order {
		members := groups[k]
		if len(members) == 1 {
			keep[members[0]] = true
			continue
		}
		winner, arbitrary := pickSurvivor(records, members, tb)
		keep[winner] = true
		groupScope := scope
		if !disagree(records, members) {
			if agreeScope == "" {
				continue
			}
			groupScope = agreeScope
		}
		conflicts = append(conflicts, ConflictGroup{
			Scope:           groupScope,
			Key:             reportKey(records[winner]),
			Records:         byEnteredDate(records, members),
			Kept:            records[winner],
			ArbitraryWinner: arbitrary,
		})
	}

	out := make([]Observation, 0, len(order))
	for i, rec := range records {
		if keep[i] {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(conflicts, func(a, b ConflictGroup) int {
		return compareIdentity(a.Key, b.Key)
	})
	return out, conflicts
}

// pickSurvivor returns the index of the record to keep and whether the choice
// fell back on something other than a unique latest entered date.
func pickSurvivor(records []Observation, members []int, tb TieBreak) (int, bool) {
	best, ties := -1, 0
	for _, i := range members {
		e := records[i].EnteredDate
		if e == nil {
			continue
		}
		switch {
		case best < 0 || e.After(*records[best].EnteredDate):
			best, ties = i, 1
		case e.Equal(*records[best].EnteredDate):
			best = i
			ties++
		}
	}
	if best >= 0 {
		return best, ties > 1
	}

	if tb == TieBreakSmallestValue {
		best = members[0]
		for _, i := range members[1:] {
			if compareMeasurement(records[i], records[best]) < 0 {
				best = i
			}
		}
		return best, true
	}
	return members[len(members)-1], true
}

func disagree(records []Observation, members []int) bool {
	first := measurementKeyOf(records[members[0]])
	for _, i := range members[1:] {
		if measurementKeyOf(records[i]) != first {
			return true
		}
	}
	return false
}

func byEnteredDate(records []Observation, members []int) []Observation {
	out := make([]Observation, 0, len(members))
	for _, i := range members {
		out = append(out, records[i])
	}
	slices.SortStableFunc(out, func(a, b Observation) int {
		return compareTimePtr(a.EnteredDate, b.EnteredDate)
	})
	return out
}
