package models

// Draft statuses. A draft only ever moves draft → submitted; the submitted
// record is retained, never deleted.
const (
	DraftStatusDraft     = "draft"
	DraftStatusSubmitted = "submitted"
)

// Draft is a user's in-progress instance of a government form. Timestamps are
// Unix milliseconds everywhere so sorting never branches on a storage-specific
// time shape.
type Draft struct {
	ID                   string         `json:"_id,omitempty"`
	UserID               string         `json:"userId"`
	FormID               string         `json:"formId"`
	FormVersion          string         `json:"formVersion"`
	Data                 map[string]any `json:"data"`
	CompletedFieldIDs    []string       `json:"completedFieldIds"`
	CompletionPercentage int            `json:"completionPercentage"`
	CurrentSection       string         `json:"currentSection,omitempty"`
	Status               string         `json:"status"`
	CreatedAt            int64          `json:"createdAt"`
	LastModifiedAt       int64          `json:"lastModifiedAt"`
	SubmittedAt          int64          `json:"submittedAt,omitempty"`
}

// Editable reports whether the draft still accepts autosave mutations.
func (d *Draft) Editable() bool {
	return d.Status == DraftStatusDraft
}

// Clone returns a deep copy so a stored draft is never aliased by callers.
func (d *Draft) Clone() *Draft {
	cp := *d
	if d.Data != nil {
		cp.Data = make(map[string]any, len(d.Data))
		for k, v := range d.Data {
			cp.Data[k] = v
		}
	}
	if d.CompletedFieldIDs != nil {
		cp.CompletedFieldIDs = append([]string(nil), d.CompletedFieldIDs...)
	}
	return &cp
}
