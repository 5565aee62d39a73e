package schema

// CrawlChapterTable represents the 'crawl.chapter' table
type CrawlChapterTable struct {
	Table         string
	ID            string
	SeriesID      string
	ChapterNumber string
	CreatedAt     string
}

// CrawlChapter is the schema definition for crawl.chapter
var CrawlChapter = CrawlChapterTable{
	Table:         "crawl.chapter",
	ID:            "id",
	SeriesID:      "seriesid",
	ChapterNumber: "chapternumber",
	CreatedAt:     "createdat",
}

func (t CrawlChapterTable) Columns() []string {
	return []string{t.ID, t.SeriesID, t.ChapterNumber, t.CreatedAt}
}
