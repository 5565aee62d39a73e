package schema

// ProgressReadEventTable represents the 'progress.readevent' table
type ProgressReadEventTable struct {
	Table           string
	ID              string
	UserID          string
	ChapterID       string
	PagesRead       string
	ReadTimeSeconds string
	OccurredAt      string
}

// ProgressReadEvent is the schema definition for progress.readevent. It
// retains a short rolling history of read timings used by the soft
// anti-abuse signal detectors (speed, bulk-speed, pattern repetition).
var ProgressReadEvent = ProgressReadEventTable{
	Table:           "progress.readevent",
	ID:              "id",
	UserID:          "userid",
	ChapterID:       "chapterid",
	PagesRead:       "pagesread",
	ReadTimeSeconds: "readtimeseconds",
	OccurredAt:      "occurredat",
}

func (t ProgressReadEventTable) Columns() []string {
	return []string{t.ID, t.UserID, t.ChapterID, t.PagesRead, t.ReadTimeSeconds, t.OccurredAt}
}
