package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type slots struct {
	Industry *string `json:"industry"`
	Location *string `json:"location"`
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `  {"a":1}  `, `{"a":1}`},
		{"trailing fence only", "{\"a\":1}\n```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestParseJSON_FencedObject(t *testing.T) {
	res := ParseJSON[slots]("```json\n{\"industry\": \"dentists\", \"location\": null}\n```")

	assert.True(t, res.OK)
	if assert.NotNil(t, res.Value.Industry) {
		assert.Equal(t, "dentists", *res.Value.Industry)
	}
	assert.Nil(t, res.Value.Location)
}

func TestParseJSON_ObjectInsideProse(t *testing.T) {
	type score struct {
		LeadScore int    `json:"lead_score"`
		Summary   string `json:"summary"`
	}

	res := ParseJSON[score]("Here you go:\n{\"lead_score\": 72,\n \"summary\": \"Busy clinic\"}\nThanks!")

	assert.True(t, res.OK)
	assert.Equal(t, 72, res.Value.LeadScore)
	assert.Equal(t, "Busy clinic", res.Value.Summary)
}

func TestParseJSON_Malformed(t *testing.T) {
	for _, in := range []string{"", "not json at all", "{\"industry\": ", "```json\n```"} {
		res := ParseJSON[slots](in)
		assert.False(t, res.OK, in)
		assert.Equal(t, in, res.Raw)
	}
}
