package schema

// SystemWorkerFailureTable represents the 'system.workerfailure' table
type SystemWorkerFailureTable struct {
	Table         string
	ID            string
	QueueName     string
	JobID         string
	ErrorMessage  string
	AttemptsMade  string
	Payload       string
	CreatedAt     string
}

// SystemWorkerFailure is the schema definition for system.workerfailure
var SystemWorkerFailure = SystemWorkerFailureTable{
	Table:        "system.workerfailure",
	ID:           "id",
	QueueName:    "queuename",
	JobID:        "jobid",
	ErrorMessage: "errormessage",
	AttemptsMade: "attemptsmade",
	Payload:      "payload",
	CreatedAt:    "createdat",
}

func (t SystemWorkerFailureTable) Columns() []string {
	return []string{
		t.ID, t.QueueName, t.JobID, t.ErrorMessage, t.AttemptsMade, t.Payload, t.CreatedAt,
	}
}
