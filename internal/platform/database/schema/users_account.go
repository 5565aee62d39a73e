package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Username       string
	Email          string
	Password       string
	Role           string
	IsVerified     string
	IsActive       string
	LastLoginAt    string
	DisplayName    string
	AvatarURL      string
	Bio            string
	Website        string
	ChaptersRead   string
	XP             string
	SeasonXP       string
	CurrentSeason  string
	TrustScore     string
	TrustUpdatedAt string
	StreakDays     string
	LastStreakAt   string
	SubscriptionTier string
	CreatedAt      string
	UpdatedAt      string
	DeletedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          "users.account",
	ID:             "id",
	Username:       "username",
	Email:          "email",
	Password:       "passwordhash",
	Role:           "role",
	IsVerified:     "isverified",
	IsActive:       "isactive",
	LastLoginAt:    "lastloginat",
	DisplayName:    "displayname",
	AvatarURL:      "avatarurl",
	Bio:            "bio",
	Website:        "website",
	ChaptersRead:   "chaptersread",
	XP:             "xp",
	SeasonXP:       "seasonxp",
	CurrentSeason:  "currentseason",
	TrustScore:     "trustscore",
	TrustUpdatedAt: "trustupdatedat",
	StreakDays:     "streakdays",
	LastStreakAt:   "laststreakat",
	SubscriptionTier: "subscriptiontier",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
	DeletedAt:      "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role, t.IsVerified,
		t.IsActive, t.LastLoginAt, t.DisplayName, t.AvatarURL, t.Bio,
		t.Website, t.ChaptersRead, t.XP, t.SeasonXP, t.CurrentSeason,
		t.TrustScore, t.TrustUpdatedAt, t.StreakDays, t.LastStreakAt,
		t.SubscriptionTier, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
