package schema

// SystemLoginAttemptTable represents the 'system.loginattempt' table
type SystemLoginAttemptTable struct {
	Table       string
	ID          string
	Email       string
	IPAddress   string
	Success     string
	AttemptedAt string
}

// SystemLoginAttempt is the schema definition for system.loginattempt
var SystemLoginAttempt = SystemLoginAttemptTable{
	Table:       "system.loginattempt",
	ID:          "id",
	Email:       "email",
	IPAddress:   "ipaddress",
	Success:     "success",
	AttemptedAt: "attemptedat",
}

func (t SystemLoginAttemptTable) Columns() []string {
	return []string{t.ID, t.Email, t.IPAddress, t.Success, t.AttemptedAt}
}
