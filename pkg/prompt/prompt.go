package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const extractTemplate = `
Extract industry and location from this user query.
Return strictly JSON with both fields. If a field is missing, set its value to null.
Example: {"industry": "restaurants", "location": "New York"}
If industry is missing, set "industry": null.
If location is missing, set "location": null.

Query: {{ .Query }}
`

const scoreTemplate = `
You are evaluating a business lead.
Lead info: {{ toJson .Lead }}

Return JSON with:
- lead_score (1-100, based on business relevance, info completeness, and credibility)
- summary (1-2 sentence warm summary of the business)

Important instructions:
1. Output must be strictly valid JSON.
2. Escape any double quotes inside string values as \".
3. Use only JSON-safe characters.
4. Do not include markdown, code fences, or extra text outside JSON.
5. Do not add commentary or explanations.
6. Use only simple words and phrases without apostrophes.

Example:
{"lead_score": 85, "summary": "A popular restaurant in New York with strong reviews and online presence."}
`

const replyTemplate = `
You are a friendly assistant helping the user find business leads.
Keep replies short (1-3 sentences), natural, and avoid repeating greetings like "hello there".
Give a warm reply that is easy to understand, direct and concise, like talking to a friend.
User message: {{ .Message }}
Current context: {{ toJson .Context }}
Leads found: {{ if .Leads }}{{ toJson .Leads }}{{ else }}No leads found{{ end }}

Special rules:
{{- if and (not .HasIndustry) (not .HasLocation) }}
- Both industry and location are missing: politely ask for both in one sentence.
{{- else if not .HasIndustry }}
- Industry is missing: ask warmly for the industry.
{{- else if not .HasLocation }}
- Location is missing: ask warmly for the location.
{{- else }}
- Respond normally with a short, helpful reply about the leads.
{{- end }}

Respond warmly and conversationally, but concise.
If the user goes off-topic, gently redirect them back to finding leads.
`

// ReplyData feeds the reply template
type ReplyData struct {
	Message     string
	Context     interface{}
	Leads       interface{}
	HasIndustry bool
	HasLocation bool
}

// Renderer holds the parsed prompt templates
type Renderer struct {
	extract *template.Template
	score   *template.Template
	reply   *template.Template
}

func NewRenderer() (*Renderer, error) {
	parse := func(name, text string) (*template.Template, error) {
		tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s prompt: %w", name, err)
		}
		return tmpl, nil
	}

	r := &Renderer{}
	var err error
	if r.extract, err = parse("extract", extractTemplate); err != nil {
		return nil, err
	}
	if r.score, err = parse("score", scoreTemplate); err != nil {
		return nil, err
	}
	if r.reply, err = parse("reply", replyTemplate); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNewRenderer panics when the built-in templates fail to parse
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func execute(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Extract asks for {"industry","location"} from a user message
func (r *Renderer) Extract(query string) (string, error) {
	return execute(r.extract, map[string]interface{}{"Query": query})
}

// Score asks for {"lead_score","summary"} about one lead
func (r *Renderer) Score(lead interface{}) (string, error) {
	return execute(r.score, map[string]interface{}{"Lead": lead})
}

// Reply asks for the conversational answer of the turn
func (r *Renderer) Reply(data ReplyData) (string, error) {
	return execute(r.reply, data)
}
