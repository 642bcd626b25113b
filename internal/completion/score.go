// Package completion computes how much of a draft the user has filled in.
package completion

import "math"

// Score returns the completion percentage of a draft, 0..100.
//
// The denominator is the number of keys present in data, not the field count
// of the form definition: a draft that omits optional fields entirely can
// still read 100%. The numerator counts ids in completed whose value in data
// is non-nil and not an empty string. An empty data map scores 0.
func Score(data map[string]any, completed []string) int {
	if len(data) == 0 {
		return 0
	}
	filled := 0
	seen := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		v, ok := data[id]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		filled++
	}
	return int(math.Round(100 * float64(filled) / float64(len(data))))
}
