package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// normalizeID converts the _id field from numeric (float64) to string
// since the store returns auto-increment numeric IDs.
func normalizeID(doc map[string]any) {
	if id, ok := doc["_id"]; ok {
		switch v := id.(type) {
		case float64:
			doc["_id"] = fmt.Sprintf("%.0f", v)
		case int:
			doc["_id"] = fmt.Sprintf("%d", v)
		}
	}
}

// extractID gets the inserted document ID from an insert response.
func extractID(result map[string]any) string {
	if id, ok := result["id"]; ok {
		switch v := id.(type) {
		case string:
			return v
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// toNumericID converts a string ID to float64 for store queries against
// auto-assigned _id values. Non-numeric IDs pass through unchanged.
func toNumericID(id string) any {
	if n, err := strconv.ParseFloat(id, 64); err == nil {
		return n
	}
	return id
}

// toDoc converts a model to the map shape the store expects. The _id field is
// stripped; the store owns it.
func toDoc(v any) map[string]any {
	data, _ := json.Marshal(v)
	var doc map[string]any
	json.Unmarshal(data, &doc)
	delete(doc, "_id")
	return doc
}

// fromDoc converts a stored document back into a model.
func fromDoc[T any](doc map[string]any) (*T, error) {
	normalizeID(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal doc: %w", err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal doc: %w", err)
	}
	return &v, nil
}

// fromDocs converts a result set, skipping documents that fail to decode.
func fromDocs[T any](docs []map[string]any) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDoc[T](d)
		if err != nil {
			continue
		}
		out = append(out, *v)
	}
	return out
}
