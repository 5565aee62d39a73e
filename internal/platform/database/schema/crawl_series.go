package schema

// CrawlSeriesTable represents the 'crawl.series' table
type CrawlSeriesTable struct {
	Table           string
	ID              string
	Title           string
	Type            string
	Status          string
	ContentRating   string
	CatalogTier     string
	TotalFollows    string
	TotalViews      string
	AverageRating   string
	LastChapterAt   string
	LastActivityAt  string
	DeletedAt       string
	CreatedAt       string
	UpdatedAt       string
}

// CrawlSeries is the schema definition for crawl.series
var CrawlSeries = CrawlSeriesTable{
	Table:          "crawl.series",
	ID:             "id",
	Title:          "title",
	Type:           "type",
	Status:         "status",
	ContentRating:  "contentrating",
	CatalogTier:    "catalogtier",
	TotalFollows:   "totalfollows",
	TotalViews:     "totalviews",
	AverageRating:  "averagerating",
	LastChapterAt:  "lastchapterat",
	LastActivityAt: "lastactivityat",
	DeletedAt:      "deletedat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

func (t CrawlSeriesTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Type, t.Status, t.ContentRating, t.CatalogTier,
		t.TotalFollows, t.TotalViews, t.AverageRating, t.LastChapterAt,
		t.LastActivityAt, t.DeletedAt, t.CreatedAt, t.UpdatedAt,
	}
}
