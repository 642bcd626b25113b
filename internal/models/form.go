package models

// FieldSpec describes one field of a government form.
type FieldSpec struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Type    string   `json:"type"` // text, email, phone, number, address, select, radio, checkbox, date
	Options []string `json:"options,omitempty"`
}

// FormDefinition is an immutable catalog entry. Definitions come from catalog
// ingestion and are never mutated by this service.
type FormDefinition struct {
	ID           string      `json:"_id,omitempty"`
	Name         string      `json:"name"`
	Slug         string      `json:"slug"`
	Department   string      `json:"department"`
	DocumentType string      `json:"documentType"`
	Version      string      `json:"version"`
	Description  string      `json:"description,omitempty"`
	Fields       []FieldSpec `json:"fields"`
	CreatedAt    string      `json:"createdAt"`
}

// Field returns the definition for a field id, or nil if the form has no such field.
func (f *FormDefinition) Field(id string) *FieldSpec {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}
