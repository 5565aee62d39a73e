package schema

// CrawlSeriesSourceTable represents the 'crawl.seriessource' table
type CrawlSeriesSourceTable struct {
	Table          string
	ID             string
	SeriesID       string
	SourceName     string
	ExternalID     string
	SourceStatus   string
	LastSuccessAt  string
	NextCheckAt    string
	IsPrimaryCover string
	ConsecutiveFails string
	CreatedAt      string
	UpdatedAt      string
}

// CrawlSeriesSource is the schema definition for crawl.seriessource
var CrawlSeriesSource = CrawlSeriesSourceTable{
	Table:            "crawl.seriessource",
	ID:               "id",
	SeriesID:         "seriesid",
	SourceName:       "sourcename",
	ExternalID:       "externalid",
	SourceStatus:     "sourcestatus",
	LastSuccessAt:    "lastsuccessat",
	NextCheckAt:      "nextcheckat",
	IsPrimaryCover:   "isprimarycover",
	ConsecutiveFails: "consecutivefails",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
}

func (t CrawlSeriesSourceTable) Columns() []string {
	return []string{
		t.ID, t.SeriesID, t.SourceName, t.ExternalID, t.SourceStatus,
		t.LastSuccessAt, t.NextCheckAt, t.IsPrimaryCover, t.ConsecutiveFails,
		t.CreatedAt, t.UpdatedAt,
	}
}
