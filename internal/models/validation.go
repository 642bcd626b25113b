package models

// Validation record statuses. overallStatus is derived from the check results,
// never set by the caller.
const (
	ValidationStatusPending   = "pending"
	ValidationStatusCompleted = "completed"
	ValidationStatusFailed    = "failed"
)

// CheckResult is the outcome of one document-quality rule.
type CheckResult struct {
	CheckName string `json:"checkName"`
	Passed    bool   `json:"passed"`
	Message   string `json:"message,omitempty"`
}

// ValidationRecord is an append-only audit record of a document-quality check
// run. Records are never updated, only superseded by a new record on re-check.
type ValidationRecord struct {
	ID            string        `json:"_id,omitempty"`
	UserID        string        `json:"userId"`
	DocumentType  string        `json:"documentType"`
	FileName      string        `json:"fileName"`
	FileSize      int64         `json:"fileSize"`
	BlobKey       string        `json:"blobKey,omitempty"`
	Results       []CheckResult `json:"results"`
	OverallStatus string        `json:"overallStatus"`
	Timestamp     int64         `json:"timestamp"`
}

// DeriveStatus computes the overall status: failed if any check failed,
// completed otherwise.
func DeriveStatus(results []CheckResult) string {
	for _, r := range results {
		if !r.Passed {
			return ValidationStatusFailed
		}
	}
	return ValidationStatusCompleted
}
