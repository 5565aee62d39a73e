package schema

// ProgressXPTransactionTable represents the 'progress.xptransaction' table
type ProgressXPTransactionTable struct {
	Table     string
	ID        string
	UserID    string
	Source    string
	Amount    string
	CreatedAt string
}

// ProgressXPTransaction is the schema definition for progress.xptransaction
var ProgressXPTransaction = ProgressXPTransactionTable{
	Table:     "progress.xptransaction",
	ID:        "id",
	UserID:    "userid",
	Source:    "source",
	Amount:    "amount",
	CreatedAt: "createdat",
}

func (t ProgressXPTransactionTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Source, t.Amount, t.CreatedAt}
}
