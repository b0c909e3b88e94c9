package session

// Header is the first row of a new conversation log.
var Header = []string{
	"task_id",
	"failure_type",
	"category",
	"sub_category",
	"system_prompt",
	"failure_rate",
	"failure_comments",
	"failure_turns",
	"whole_conversation",
	"timestamp",
}

// Record is one saved session, flattened to the log's fixed columns.
type Record struct {
	TaskID            string
	FailureType       string
	Category          string
	SubCategory       string
	SystemPrompt      string
	FailureRate       string
	FailureComments   string
	FailureTurns      string
	WholeConversation string
	Timestamp         string
}

// Row returns the record's columns in Header order.
func (r *Record) Row() []string {
	return []string{
		r.TaskID,
		r.FailureType,
		r.Category,
		r.SubCategory,
		r.SystemPrompt,
		r.FailureRate,
		r.FailureComments,
		r.FailureTurns,
		r.WholeConversation,
		r.Timestamp,
	}
}
