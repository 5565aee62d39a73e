package schema

// UserSyncSettingTable represents the 'users.syncsetting' table
type UserSyncSettingTable struct {
	Table     string
	UserID    string
	Key       string
	Value     string
	UpdatedAt string
}

// UserSyncSetting is the schema definition for users.syncsetting. It holds
// the last-writer-wins settings blob replayed from the offline outbox's
// SETTING_UPDATE action, keyed by (user_id, key).
var UserSyncSetting = UserSyncSettingTable{
	Table:     "users.syncsetting",
	UserID:    "userid",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updatedat",
}

func (t UserSyncSettingTable) Columns() []string {
	return []string{t.UserID, t.Key, t.Value, t.UpdatedAt}
}
