package schema

// CrawlChapterSourceTable represents the 'crawl.chaptersource' table
type CrawlChapterSourceTable struct {
	Table          string
	ID             string
	SeriesSourceID string
	ChapterID      string
	SourceChapterID string
	ChapterURL     string
	IsAvailable    string
	DetectedAt     string
}

// CrawlChapterSource is the schema definition for crawl.chaptersource
var CrawlChapterSource = CrawlChapterSourceTable{
	Table:           "crawl.chaptersource",
	ID:              "id",
	SeriesSourceID:  "seriessourceid",
	ChapterID:       "chapterid",
	SourceChapterID: "sourcechapterid",
	ChapterURL:      "chapterurl",
	IsAvailable:     "isavailable",
	DetectedAt:      "detectedat",
}

func (t CrawlChapterSourceTable) Columns() []string {
	return []string{
		t.ID, t.SeriesSourceID, t.ChapterID, t.SourceChapterID, t.ChapterURL,
		t.IsAvailable, t.DetectedAt,
	}
}
