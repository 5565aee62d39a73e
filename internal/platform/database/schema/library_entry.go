package schema

// LibraryEntryTable represents the 'library.entry' table
type LibraryEntryTable struct {
	Table            string
	ID               string
	UserID           string
	SeriesID         string
	SourceURL        string
	SourceName       string
	Status           string
	LastReadChapter  string
	MetadataStatus   string
	SyncStatus       string
	SyncPriority     string
	DeletedAt        string
	CreatedAt        string
	UpdatedAt        string
}

// LibraryEntry is the schema definition for library.entry
var LibraryEntry = LibraryEntryTable{
	Table:           "library.entry",
	ID:              "id",
	UserID:          "userid",
	SeriesID:        "seriesid",
	SourceURL:       "sourceurl",
	SourceName:      "sourcename",
	Status:          "status",
	LastReadChapter: "lastreadchapter",
	MetadataStatus:  "metadatastatus",
	SyncStatus:      "syncstatus",
	SyncPriority:    "syncpriority",
	DeletedAt:       "deletedat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t LibraryEntryTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.SeriesID, t.SourceURL, t.SourceName, t.Status,
		t.LastReadChapter, t.MetadataStatus, t.SyncStatus, t.SyncPriority,
		t.DeletedAt, t.CreatedAt, t.UpdatedAt,
	}
}
