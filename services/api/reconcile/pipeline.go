package reconcile

// Options are the caller policies for one reconciliation.
type Options struct {
	// IncludeFlags folds LOD flags into text cells.
	IncludeFlags bool
	// CollapseAliases keeps one row per station id regardless of label.
	CollapseAliases bool
	// TieBreak picks survivors when no entered date is available.
	TieBreak TieBreak
}

// Stats counts records after each stage.
type Stats struct {
	Fetched        int `json:"records_fetched"`
	AfterExact     int `json:"records_after_exact"`
	AfterConflicts int `json:"records_after_conflicts"`
	Kept           int `json:"records_kept"`
}

// Result is the output of ReconcileAndPivot. Conflicts is never nil.
type Result struct {
	Table     *Table
	Conflicts []ConflictGroup
	Stats     Stats
}

// ReconcileAndPivot runs the whole pipeline: exact-duplicate collapse,
// conflict resolution, optional alias collapse, flag merge and pivot.
// records is not modified.
func ReconcileAndPivot(records []Observation, opts Options) (*Result, error) {
	stats := Stats{Fetched: len(records)}

	cleaned := CollapseExact(records)
	stats.AfterExact = len(cleaned)

	cleaned, conflicts := ResolveConflicts(cleaned, opts.TieBreak)
	stats.AfterConflicts = len(cleaned)

	if opts.CollapseAliases {
		var aliasConflicts []ConflictGroup
		cleaned, aliasConflicts = CollapseAliases(cleaned, opts.TieBreak)
		conflicts = append(conflicts, aliasConflicts...)
	}
	stats.Kept = len(cleaned)

	table, err := Pivot(MergeFlags(cleaned, opts.IncludeFlags))
	if err != nil {
		return nil, err
	}
	if conflicts == nil {
		conflicts = []ConflictGroup{}
	}
	return &Result{Table: table, Conflicts: conflicts, Stats: stats}, nil
}
