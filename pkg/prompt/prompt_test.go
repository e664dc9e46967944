package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Extract(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Extract(`dentists in "New York"`)
	require.NoError(t, err)
	assert.Contains(t, out, `Query: dentists in "New York"`)
	assert.Contains(t, out, `{"industry": "restaurants", "location": "New York"}`)
}

func TestRenderer_ScoreEmbedsLeadAsJSON(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Score(map[string]string{"business_name": "Bright Smile", "website": "N/A"})
	require.NoError(t, err)
	assert.Contains(t, out, `Lead info: {"business_name":"Bright Smile","website":"N/A"}`)
}

func TestRenderer_ReplyRules(t *testing.T) {
	r := MustNewRenderer()

	tests := []struct {
		name string
		data ReplyData
		want string
	}{
		{"both missing", ReplyData{Message: "hi"}, "ask for both"},
		{"industry missing", ReplyData{Message: "in Paris", HasLocation: true}, "ask warmly for the industry"},
		{"location missing", ReplyData{Message: "bakeries", HasIndustry: true}, "ask warmly for the location"},
		{"complete", ReplyData{Message: "go", HasIndustry: true, HasLocation: true, Leads: []string{"x"}}, `Leads found: ["x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Reply(tt.data)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRenderer_ReplyWithoutLeads(t *testing.T) {
	r := MustNewRenderer()

	out, err := r.Reply(ReplyData{Message: "bakeries", HasIndustry: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Leads found: No leads found")
}
