package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habitual/internal/model"
)

func TestRoundTrip(t *testing.T) {
	in := []model.Habit{
		{
			Name:     "Run",
			Category: "Health",
			Streak:   2,
			Completions: model.Completions{
				"2026-10-14": true,
				"2026-10-15": true,
			},
		},
		{Name: "Read", Category: "Learning", Completions: model.Completions{}},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMarshal_EmitsEmptyCompletions(t *testing.T) {
	data, err := Marshal([]model.Habit{{Name: "Run", Category: "Health"}})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, map[string]any{}, raw[0]["completions"])
	assert.EqualValues(t, 0, raw[0]["streak"])
}

func TestMarshal_EmptyCollection(t *testing.T) {
	data, err := Marshal(nil)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnmarshal_Defaults(t *testing.T) {
	out, err := Unmarshal([]byte(`[
		{"name": "Run", "category": "Health"},
		{"name": "Read", "category": "Learning", "streak": null, "completions": null}
	]`))
	require.NoError(t, err)
	require.Len(t, out, 2)

	for _, h := range out {
		assert.Equal(t, 0, h.Streak)
		assert.NotNil(t, h.Completions)
		assert.Empty(t, h.Completions)
	}
}

func TestUnmarshal_DropsFalseEntries(t *testing.T) {
	out, err := Unmarshal([]byte(`[{"name":"Run","category":"Health",
		"completions":{"2026-10-14":true,"2026-10-15":false}}]`))
	require.NoError(t, err)
	assert.Equal(t, model.Completions{"2026-10-14": true}, out[0].Completions)
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ``},
		{"not json", `hello`},
		{"object root", `{"name":"Run"}`},
		{"truncated", `[{"name":"Run"`},
		{"element not object", `[1]`},
		{"missing name", `[{"category":"Health"}]`},
		{"missing category", `[{"name":"Run"}]`},
		{"name not string", `[{"name":3,"category":"Health"}]`},
		{"blank name", `[{"name":"  ","category":"Health"}]`},
		{"negative streak", `[{"name":"Run","category":"Health","streak":-1}]`},
		{"fractional streak", `[{"name":"Run","category":"Health","streak":1.5}]`},
		{"completions array", `[{"name":"Run","category":"Health","completions":[]}]`},
		{"completion value string", `[{"name":"Run","category":"Health","completions":{"2026-10-15":"yes"}}]`},
		{"bad date key", `[{"name":"Run","category":"Health","completions":{"15/10/2026":true}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestUnmarshal_PreservesOrder(t *testing.T) {
	out, err := Unmarshal([]byte(`[
		{"name":"C","category":"x"},
		{"name":"A","category":"x"},
		{"name":"B","category":"x"}
	]`))
	require.NoError(t, err)

	names := make([]string, len(out))
	for i, h := range out {
		names[i] = h.Name
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)
}
