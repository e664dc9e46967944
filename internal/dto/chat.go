package dto

import "encoding/json"

type ChatRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

// ChatContext is the per-user conversation memory
type ChatContext struct {
	Industry *string `json:"industry,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Complete reports whether both slots are filled
func (c ChatContext) Complete() bool {
	return c.Industry != nil && *c.Industry != "" && c.Location != nil && *c.Location != ""
}

// ChatLead is a place found for the current turn, enriched with score and summary
type ChatLead struct {
	BusinessName  string `json:"business_name"`
	Industry      string `json:"industry"`
	Address       string `json:"address"`
	Website       string `json:"website"`
	ContactNumber string `json:"contact_number"`
	LeadScore     int    `json:"lead_score"`
	Summary       string `json:"summary"`
}

// ChatResponse carries context and leads only once both slots are known.
// Turns that stop early serialize as {"message": ...}.
type ChatResponse struct {
	Context *ChatContext `json:"context"`
	Message string       `json:"message"`
	Leads   []ChatLead   `json:"leads"`
}

func (r ChatResponse) MarshalJSON() ([]byte, error) {
	if r.Context == nil {
		return json.Marshal(struct {
			Message string `json:"message"`
		}{r.Message})
	}

	type full ChatResponse
	if r.Leads == nil {
		r.Leads = []ChatLead{}
	}
	return json.Marshal(full(r))
}
