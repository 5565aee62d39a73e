package schema

// LibraryUserChapterReadTable represents the 'library.userchapterread' table
type LibraryUserChapterReadTable struct {
	Table     string
	UserID    string
	ChapterID string
	IsRead    string
	UpdatedAt string
}

// LibraryUserChapterRead is the schema definition for library.userchapterread
var LibraryUserChapterRead = LibraryUserChapterReadTable{
	Table:     "library.userchapterread",
	UserID:    "userid",
	ChapterID: "chapterid",
	IsRead:    "isread",
	UpdatedAt: "updatedat",
}

func (t LibraryUserChapterReadTable) Columns() []string {
	return []string{t.UserID, t.ChapterID, t.IsRead, t.UpdatedAt}
}
