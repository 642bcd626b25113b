package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicdocs/formportal/internal/completion"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]any
		completed []string
		want      int
	}{
		{
			name: "empty draft scores zero",
			want: 0,
		},
		{
			name:      "completed fields without data score zero",
			data:      map[string]any{},
			completed: []string{"name"},
			want:      0,
		},
		{
			name:      "half filled",
			data:      map[string]any{"name": "Ram", "age": ""},
			completed: []string{"name"},
			want:      50,
		},
		{
			name:      "empty string value does not count",
			data:      map[string]any{"name": ""},
			completed: []string{"name"},
			want:      0,
		},
		{
			name:      "nil value does not count",
			data:      map[string]any{"name": nil},
			completed: []string{"name"},
			want:      0,
		},
		{
			name:      "all filled",
			data:      map[string]any{"name": "Ram", "age": 31},
			completed: []string{"name", "age"},
			want:      100,
		},
		{
			name:      "untouched keys widen the denominator",
			data:      map[string]any{"name": "Ram", "age": 31, "phone": "98"},
			completed: []string{"name"},
			want:      33,
		},
		{
			name:      "completed id absent from data is ignored",
			data:      map[string]any{"name": "Ram"},
			completed: []string{"name", "ghost"},
			want:      100,
		},
		{
			name:      "duplicate completed ids count once",
			data:      map[string]any{"name": "Ram", "age": ""},
			completed: []string{"name", "name"},
			want:      50,
		},
		{
			name:      "non-string values count when non-nil",
			data:      map[string]any{"agreed": false, "count": 0},
			completed: []string{"agreed", "count"},
			want:      100,
		},
		{
			name:      "rounds to nearest",
			data:      map[string]any{"a": "x", "b": "y", "c": ""},
			completed: []string{"a", "b"},
			want:      67,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completion.Score(tt.data, tt.completed)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

// Adding another validly-filled completed field never lowers the score while
// data stays fixed.
func TestScoreMonotonic(t *testing.T) {
	data := map[string]any{"a": "1", "b": "2", "c": "3", "d": ""}
	completed := []string{}
	prev := 0
	for _, id := range []string{"a", "b", "c"} {
		completed = append(completed, id)
		got := completion.Score(data, completed)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}
