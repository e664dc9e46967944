package service

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/llm"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/Payphone-Digital/leadgen/pkg/places"
	"github.com/Payphone-Digital/leadgen/pkg/prompt"
	"golang.org/x/sync/errgroup"
)

// LLM generates text for a single prompt
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PlaceFinder is the mapping API used to discover businesses
type PlaceFinder interface {
	Geocode(ctx context.Context, address string) (places.LatLng, error)
	NearbySearch(ctx context.Context, location places.LatLng, radius int, keyword string) ([]places.Place, error)
	Details(ctx context.Context, placeID string) (places.Details, error)
}

// LeadSaver persists enriched leads atomically
type LeadSaver interface {
	CreateBatch(ctx context.Context, leads []model.Lead) error
}

type ChatConfig struct {
	AuthLeadLimit  int
	GuestLeadLimit int
	Radius         int
	// Concurrency bounds the per-lead details and scoring calls in flight
	Concurrency int
}

type ChatService struct {
	llm     LLM
	places  PlaceFinder
	store   ContextStore
	leads   LeadSaver
	prompts *prompt.Renderer
	config  ChatConfig
}

func NewChatService(llmClient LLM, finder PlaceFinder, store ContextStore, leads LeadSaver, prompts *prompt.Renderer, config ChatConfig) *ChatService {
	if config.Radius <= 0 {
		config.Radius = constants.DefaultSearchRadius
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	return &ChatService{
		llm:     llmClient,
		places:  finder,
		store:   store,
		leads:   leads,
		prompts: prompts,
		config:  config,
	}
}

type extraction struct {
	Industry *string `json:"industry"`
	Location *string `json:"location"`
}

// flexibleScore accepts a number or a numeric string
type flexibleScore int

func (f *flexibleScore) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return err
		}
	}
	*f = flexibleScore(math.Round(n))
	return nil
}

type enrichment struct {
	LeadScore *flexibleScore `json:"lead_score"`
	Summary   *string        `json:"summary"`
}

// userKey scopes the conversation memory
func userKey(user *model.User) string {
	if user == nil {
		return constants.GuestUserKey
	}
	return user.ID.String()
}

// Chat runs one conversational turn: extract, merge, gate, fetch and enrich,
// persist for authenticated callers, then reply. Upstream failures degrade
// the turn instead of failing it.
func (s *ChatService) Chat(ctx context.Context, message string, user *model.User) (*dto.ChatResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Chat")

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	key := userKey(user)
	start := time.Now()

	logger.InfoWithContext(ctx, "Chat turn started").
		String("user_key", key).
		Int("message_length", len(message)).
		Log()

	extracted, ok := s.extract(ctx, message)
	if !ok {
		chatCtx := s.loadContext(ctx, key)
		return &dto.ChatResponse{Message: s.reply(ctx, message, chatCtx, nil)}, nil
	}

	chatCtx := s.mergeContext(ctx, key, extracted)
	if !chatCtx.Complete() {
		logger.DebugWithContext(ctx, "Conversation context incomplete").
			String("user_key", key).
			Bool("has_industry", chatCtx.Industry != nil).
			Bool("has_location", chatCtx.Location != nil).
			Log()
		return &dto.ChatResponse{Message: s.reply(ctx, message, chatCtx, nil)}, nil
	}

	limit := s.config.GuestLeadLimit
	if user != nil {
		limit = s.config.AuthLeadLimit
	}

	leads := s.fetchLeads(ctx, *chatCtx.Industry, *chatCtx.Location, limit)
	if leads == nil {
		leads = []dto.ChatLead{}
	}

	if user != nil && len(leads) > 0 {
		if err := s.persist(ctx, user, leads); err != nil {
			return nil, err
		}
	}

	response := &dto.ChatResponse{
		Context: &chatCtx,
		Message: s.reply(ctx, message, chatCtx, leads),
		Leads:   leads,
	}

	logger.InfoWithContext(ctx, "Chat turn completed").
		String("user_key", key).
		Int("leads", len(leads)).
		Bool("persisted", user != nil && len(leads) > 0).
		Duration(time.Since(start)).
		Log()

	return response, nil
}

func (s *ChatService) extract(ctx context.Context, message string) (extraction, bool) {
	text, err := s.prompts.Extract(message)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to render extraction prompt").Err(err).Log()
		return extraction{}, false
	}

	raw, err := s.llm.Generate(ctx, text)
	if err != nil {
		logger.WarnWithContext(ctx, "Extraction unavailable, continuing without it").Err(err).Log()
		return extraction{}, false
	}

	parsed := llm.ParseJSON[extraction](raw)
	if !parsed.OK {
		logger.WarnWithContext(ctx, "Extraction output was not valid JSON").
			String("raw", truncate(parsed.Raw, 200)).
			Log()
		return extraction{}, false
	}
	return parsed.Value, true
}

func nonEmpty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return &trimmed
}

// mergeContext overwrites stored slots with non-empty extracted values.
// A failing store degrades to a context local to this turn.
func (s *ChatService) mergeContext(ctx context.Context, key string, extracted extraction) dto.ChatContext {
	merge := func(c *dto.ChatContext) {
		if v := nonEmpty(extracted.Industry); v != nil {
			c.Industry = v
		}
		if v := nonEmpty(extracted.Location); v != nil {
			c.Location = v
		}
	}

	chatCtx, err := s.store.Update(ctx, key, merge)
	if err != nil {
		logger.ErrorWithContext(ctx, "Conversation store update failed").
			String("user_key", key).
			Err(err).
			Log()
		local := dto.ChatContext{}
		merge(&local)
		return local
	}
	return chatCtx
}

func (s *ChatService) loadContext(ctx context.Context, key string) dto.ChatContext {
	chatCtx, err := s.store.Get(ctx, key)
	if err != nil {
		logger.ErrorWithContext(ctx, "Conversation store read failed").
			String("user_key", key).
			Err(err).
			Log()
		return dto.ChatContext{}
	}
	return chatCtx
}

// fetchLeads returns at most limit enriched leads. Geocode or search
// failures yield no leads.
func (s *ChatService) fetchLeads(ctx context.Context, industry, location string, limit int) []dto.ChatLead {
	coords, err := s.places.Geocode(ctx, location)
	if err != nil {
		logger.WarnWithContext(ctx, "Geocoding failed, no leads this turn").
			String("location", location).
			Err(err).
			Log()
		return nil
	}

	found, err := s.places.NearbySearch(ctx, coords, s.config.Radius, industry)
	if err != nil {
		logger.WarnWithContext(ctx, "Nearby search failed, no leads this turn").
			String("industry", industry).
			Err(err).
			Log()
		return nil
	}

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	if len(found) == 0 {
		return nil
	}

	leads := make([]dto.ChatLead, len(found))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, place := range found {
		g.Go(func() error {
			leads[i] = s.enrich(gctx, industry, place)
			return nil
		})
	}
	_ = g.Wait()

	return leads
}

func (s *ChatService) enrich(ctx context.Context, industry string, place places.Place) dto.ChatLead {
	lead := dto.ChatLead{
		BusinessName:  place.Name,
		Industry:      industry,
		Address:       place.Vicinity,
		Website:       constants.PlaceFieldMissing,
		ContactNumber: constants.PlaceFieldMissing,
		LeadScore:     constants.FallbackLeadScore,
		Summary:       constants.FallbackLeadSummary,
	}

	details, err := s.places.Details(ctx, place.PlaceID)
	if err != nil {
		logger.WarnWithContext(ctx, "Place details unavailable").
			String("place_id", place.PlaceID).
			Err(err).
			Log()
	} else {
		if details.Website != "" {
			lead.Website = details.Website
		}
		if details.FormattedPhoneNumber != "" {
			lead.ContactNumber = details.FormattedPhoneNumber
		}
	}

	lead.LeadScore, lead.Summary = s.score(ctx, lead)
	return lead
}

// score asks the model for a score and summary, falling back on any failure
func (s *ChatService) score(ctx context.Context, lead dto.ChatLead) (int, string) {
	text, err := s.prompts.Score(map[string]string{
		"business_name":  lead.BusinessName,
		"industry":       lead.Industry,
		"address":        lead.Address,
		"website":        lead.Website,
		"contact_number": lead.ContactNumber,
	})
	if err != nil {
		return constants.FallbackLeadScore, constants.FallbackLeadSummary
	}

	raw, err := s.llm.Generate(ctx, text)
	if err != nil {
		logger.WarnWithContext(ctx, "Lead scoring unavailable").
			String("business_name", lead.BusinessName).
			Err(err).
			Log()
		return constants.FallbackLeadScore, constants.FallbackLeadSummary
	}

	parsed := llm.ParseJSON[enrichment](raw)
	if !parsed.OK {
		logger.WarnWithContext(ctx, "Lead scoring output was not valid JSON").
			String("raw", truncate(parsed.Raw, 200)).
			Log()
		return constants.FallbackLeadScore, constants.FallbackLeadSummary
	}

	score := constants.FallbackLeadScore
	if parsed.Value.LeadScore != nil {
		score = clampScore(int(*parsed.Value.LeadScore))
	}
	summary := constants.FallbackLeadSummary
	if parsed.Value.Summary != nil && strings.TrimSpace(*parsed.Value.Summary) != "" {
		summary = strings.TrimSpace(*parsed.Value.Summary)
	}
	return score, summary
}

func clampScore(score int) int {
	if score < constants.MinLeadScore {
		return constants.MinLeadScore
	}
	if score > constants.MaxLeadScore {
		return constants.MaxLeadScore
	}
	return score
}

func (s *ChatService) persist(ctx context.Context, user *model.User, leads []dto.ChatLead) error {
	userID := user.ID
	records := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		records = append(records, model.Lead{
			BusinessName:  l.BusinessName,
			Industry:      l.Industry,
			LeadScore:     l.LeadScore,
			Verified:      false,
			ContactNumber: strPtr(l.ContactNumber),
			Address:       strPtr(l.Address),
			Website:       strPtr(l.Website),
			Summary:       strPtr(l.Summary),
			UserID:        &userID,
		})
	}

	if err := s.leads.CreateBatch(ctx, records); err != nil {
		logger.ErrorWithContext(ctx, "Failed to persist chat leads").
			String("user_id", userID.String()).
			Int("count", len(records)).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return nil
}

// reply produces the conversational answer, or a fixed fallback
func (s *ChatService) reply(ctx context.Context, message string, chatCtx dto.ChatContext, leads []dto.ChatLead) string {
	data := prompt.ReplyData{
		Message:     message,
		Context:     chatCtx,
		HasIndustry: chatCtx.Industry != nil,
		HasLocation: chatCtx.Location != nil,
	}
	if len(leads) > 0 {
		data.Leads = leads
	}

	text, err := s.prompts.Reply(data)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to render reply prompt").Err(err).Log()
		return constants.FallbackChatReply
	}

	answer, err := s.llm.Generate(ctx, text)
	if err != nil {
		logger.WarnWithContext(ctx, "Reply generation unavailable, using fallback").Err(err).Log()
		return constants.FallbackChatReply
	}
	return answer
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
