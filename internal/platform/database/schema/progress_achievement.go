package schema

// ProgressAchievementTable represents the 'progress.achievement' table
type ProgressAchievementTable struct {
	Table         string
	ID            string
	UserID        string
	AchievementID string
	SeasonID      string
	CreatedAt     string
}

// ProgressAchievement is the schema definition for progress.achievement
var ProgressAchievement = ProgressAchievementTable{
	Table:         "progress.achievement",
	ID:            "id",
	UserID:        "userid",
	AchievementID: "achievementid",
	SeasonID:      "seasonid",
	CreatedAt:     "createdat",
}

func (t ProgressAchievementTable) Columns() []string {
	return []string{t.ID, t.UserID, t.AchievementID, t.SeasonID, t.CreatedAt}
}
