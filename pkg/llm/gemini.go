package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Payphone-Digital/leadgen/pkg/upstream"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("llm: empty response")

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Gemini calls the generateContent endpoint of the Generative Language API
type Gemini struct {
	client  *upstream.Client
	baseURL string
	model   string
	apiKey  string
}

func NewGemini(client *upstream.Client, baseURL, model, apiKey string) *Gemini {
	return &Gemini{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

// Generate sends a single-turn prompt and returns the concatenated text parts
// of the first candidate
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var resp generateResponse
	err := g.client.DoJSON(ctx, upstream.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model)),
		Query:  url.Values{"key": {g.apiKey}},
		Body: generateRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		},
	}, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
