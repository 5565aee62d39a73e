package schema

// ProgressTrustViolationTable represents the 'progress.trustviolation' table
type ProgressTrustViolationTable struct {
	Table         string
	ID            string
	UserID        string
	ViolationType string
	Penalty       string
	OccurredAt    string
}

// ProgressTrustViolation is the schema definition for progress.trustviolation.
// One row is appended each time a soft anti-abuse signal actually applies a
// penalty (post-cooldown); it is never written on a suppressed duplicate.
var ProgressTrustViolation = ProgressTrustViolationTable{
	Table:         "progress.trustviolation",
	ID:            "id",
	UserID:        "userid",
	ViolationType: "violationtype",
	Penalty:       "penalty",
	OccurredAt:    "occurredat",
}

func (t ProgressTrustViolationTable) Columns() []string {
	return []string{t.ID, t.UserID, t.ViolationType, t.Penalty, t.OccurredAt}
}
