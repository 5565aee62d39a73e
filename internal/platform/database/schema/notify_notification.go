package schema

// NotifyNotificationTable represents the 'notify.notification' table
type NotifyNotificationTable struct {
	Table     string
	ID        string
	UserID    string
	SeriesID  string
	ChapterID string
	CreatedAt string
}

// NotifyNotification is the schema definition for notify.notification
var NotifyNotification = NotifyNotificationTable{
	Table:     "notify.notification",
	ID:        "id",
	UserID:    "userid",
	SeriesID:  "seriesid",
	ChapterID: "chapterid",
	CreatedAt: "createdat",
}

func (t NotifyNotificationTable) Columns() []string {
	return []string{t.ID, t.UserID, t.SeriesID, t.ChapterID, t.CreatedAt}
}
