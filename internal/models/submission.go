package models

// Submission statuses. approved/rejected are terminal and reachable only from
// submitted, through an explicit review action.
const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusApproved  = "approved"
	SubmissionStatusRejected  = "rejected"
)

// Submission is the finalized record produced when a draft is submitted. Data
// is a snapshot taken at submission time; later draft state never leaks in.
type Submission struct {
	ID          string         `json:"_id,omitempty"`
	UserID      string         `json:"userId"`
	FormType    string         `json:"formType"`
	Data        map[string]any `json:"data"`
	Status      string         `json:"status"`
	Timestamp   int64          `json:"timestamp"`
	LastUpdated int64          `json:"lastUpdated"`
}
