package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/Payphone-Digital/leadgen/pkg/cache"
	"github.com/Payphone-Digital/leadgen/pkg/places"
	"github.com/Payphone-Digital/leadgen/pkg/prompt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM answers by prompt kind
type fakeLLM struct {
	mu      sync.Mutex
	extract string
	score   string
	reply   string
	err     error
	calls   []string
}

func (f *fakeLLM) Generate(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.Contains(text, "Extract industry and location"):
		f.calls = append(f.calls, "extract")
		if f.err != nil {
			return "", f.err
		}
		return f.extract, nil
	case strings.Contains(text, "evaluating a business lead"):
		f.calls = append(f.calls, "score")
		if f.err != nil {
			return "", f.err
		}
		return f.score, nil
	default:
		f.calls = append(f.calls, "reply")
		if f.err != nil {
			return "", f.err
		}
		return f.reply, nil
	}
}

type fakePlaces struct {
	places     []places.Place
	geocodeErr error
	detailsErr error
	keyword    string
}

func (f *fakePlaces) Geocode(_ context.Context, address string) (places.LatLng, error) {
	if f.geocodeErr != nil {
		return places.LatLng{}, f.geocodeErr
	}
	return places.LatLng{Lat: 30.26, Lng: -97.74}, nil
}

func (f *fakePlaces) NearbySearch(_ context.Context, _ places.LatLng, _ int, keyword string) ([]places.Place, error) {
	f.keyword = keyword
	return f.places, nil
}

func (f *fakePlaces) Details(_ context.Context, placeID string) (places.Details, error) {
	if f.detailsErr != nil {
		return places.Details{}, f.detailsErr
	}
	return places.Details{Website: "https://" + placeID + ".example", FormattedPhoneNumber: "555-0100"}, nil
}

type recordingSaver struct {
	saved []model.Lead
	err   error
}

func (r *recordingSaver) CreateBatch(_ context.Context, leads []model.Lead) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, leads...)
	return nil
}

func samplePlaces(n int) []places.Place {
	out := make([]places.Place, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		out = append(out, places.Place{PlaceID: "place-" + id, Name: "Bakery " + id, Vicinity: id + " Main St"})
	}
	return out
}

type chatFixture struct {
	svc    *ChatService
	llm    *fakeLLM
	places *fakePlaces
	saver  *recordingSaver
	store  ContextStore
}

func newChatFixture(t *testing.T) chatFixture {
	t.Helper()
	mem := cache.NewCache()
	t.Cleanup(mem.Close)

	f := chatFixture{
		llm: &fakeLLM{
			extract: `{"industry": "bakeries", "location": "Austin"}`,
			score:   "```json\n{\"lead_score\": 82, \"summary\": \"A friendly local bakery.\"}\n```",
			reply:   "Here are some bakeries in Austin.",
		},
		places: &fakePlaces{places: samplePlaces(6)},
		saver:  &recordingSaver{},
		store:  NewMemoryContextStore(mem, time.Hour),
	}
	f.svc = NewChatService(f.llm, f.places, f.store, f.saver, prompt.MustNewRenderer(), ChatConfig{
		AuthLeadLimit:  3,
		GuestLeadLimit: 5,
		Radius:         5000,
	})
	return f
}

func TestChatService_EmptyMessage(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.svc.Chat(t.Context(), "   ", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	assert.Empty(t, f.llm.calls)
}

func TestChatService_IndustryOnlyAsksForLocation(t *testing.T) {
	f := newChatFixture(t)
	f.llm.extract = `{"industry": "bakeries", "location": null}`
	f.llm.reply = "Where should I look?"

	res, err := f.svc.Chat(t.Context(), "find me bakeries", nil)
	require.NoError(t, err)

	assert.Equal(t, "Where should I look?", res.Message)
	assert.Empty(t, res.Leads)
	assert.Nil(t, res.Context)

	stored, err := f.store.Get(t.Context(), constants.GuestUserKey)
	require.NoError(t, err)
	require.NotNil(t, stored.Industry)
	assert.Equal(t, "bakeries", *stored.Industry)
	assert.Nil(t, stored.Location)
	assert.Empty(t, f.saver.saved)
}

func TestChatService_ContextAccumulatesAcrossTurns(t *testing.T) {
	f := newChatFixture(t)
	user := &model.User{ID: uuid.New()}

	f.llm.extract = `{"industry": "bakeries", "location": null}`
	_, err := f.svc.Chat(t.Context(), "bakeries please", user)
	require.NoError(t, err)

	f.llm.extract = `{"industry": null, "location": "Austin"}`
	res, err := f.svc.Chat(t.Context(), "in Austin", user)
	require.NoError(t, err)

	require.NotNil(t, res.Context)
	assert.Equal(t, "bakeries", *res.Context.Industry)
	assert.Equal(t, "Austin", *res.Context.Location)
	assert.Equal(t, "bakeries", f.places.keyword)
	assert.Len(t, res.Leads, 3)
}

func TestChatService_AuthenticatedPersistsLeads(t *testing.T) {
	f := newChatFixture(t)
	user := &model.User{ID: uuid.New()}

	res, err := f.svc.Chat(t.Context(), "bakeries in Austin", user)
	require.NoError(t, err)

	require.Len(t, res.Leads, 3)
	assert.Equal(t, "Bakery a", res.Leads[0].BusinessName)
	assert.Equal(t, "Bakery c", res.Leads[2].BusinessName)
	assert.Equal(t, 82, res.Leads[0].LeadScore)
	assert.Equal(t, "A friendly local bakery.", res.Leads[0].Summary)
	assert.Equal(t, "https://place-a.example", res.Leads[0].Website)

	require.Len(t, f.saver.saved, 3)
	for _, lead := range f.saver.saved {
		require.NotNil(t, lead.UserID)
		assert.Equal(t, user.ID, *lead.UserID)
		assert.Equal(t, "bakeries", lead.Industry)
		assert.GreaterOrEqual(t, lead.LeadScore, 0)
		assert.False(t, lead.Verified)
	}
}

func TestChatService_GuestGetsLeadsWithoutPersistence(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.svc.Chat(t.Context(), "bakeries in Austin", nil)
	require.NoError(t, err)

	assert.Len(t, res.Leads, 5)
	assert.Empty(t, f.saver.saved)
}

func TestChatService_ExtractionParseFailure(t *testing.T) {
	f := newChatFixture(t)
	f.llm.extract = "I am not sure what you mean"
	f.llm.reply = "Could you tell me the industry and location?"

	res, err := f.svc.Chat(t.Context(), "hello", nil)
	require.NoError(t, err)

	assert.Equal(t, "Could you tell me the industry and location?", res.Message)
	assert.Nil(t, res.Context)
	assert.Empty(t, res.Leads)
	assert.Equal(t, []string{"extract", "reply"}, f.llm.calls)
}

func TestChatService_GeocodeFailureYieldsNoLeads(t *testing.T) {
	f := newChatFixture(t)
	f.places.geocodeErr = places.ErrNoResults

	res, err := f.svc.Chat(t.Context(), "bakeries in Atlantis", &model.User{ID: uuid.New()})
	require.NoError(t, err)

	require.NotNil(t, res.Context)
	require.NotNil(t, res.Leads)
	assert.Empty(t, res.Leads)
	assert.Empty(t, f.saver.saved)
	assert.NotEmpty(t, res.Message)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"leads":[]`)
}

func TestChatService_EnrichmentFallbacks(t *testing.T) {
	f := newChatFixture(t)
	f.places.detailsErr = errors.New("details down")
	f.llm.score = "not json at all"

	res, err := f.svc.Chat(t.Context(), "bakeries in Austin", nil)
	require.NoError(t, err)

	require.NotEmpty(t, res.Leads)
	lead := res.Leads[0]
	assert.Equal(t, constants.PlaceFieldMissing, lead.Website)
	assert.Equal(t, constants.PlaceFieldMissing, lead.ContactNumber)
	assert.Equal(t, constants.FallbackLeadScore, lead.LeadScore)
	assert.Equal(t, constants.FallbackLeadSummary, lead.Summary)
}

func TestChatService_ScoreIsClampedAndAcceptsStrings(t *testing.T) {
	f := newChatFixture(t)

	f.llm.score = `{"lead_score": 250, "summary": "Huge."}`
	res, err := f.svc.Chat(t.Context(), "bakeries in Austin", nil)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Leads[0].LeadScore)

	f.llm.score = `{"lead_score": "64", "summary": "Decent."}`
	res, err = f.svc.Chat(t.Context(), "bakeries in Austin", nil)
	require.NoError(t, err)
	assert.Equal(t, 64, res.Leads[0].LeadScore)
}

func TestChatService_ReplyFallback(t *testing.T) {
	f := newChatFixture(t)
	f.llm.err = errors.New("model down")

	res, err := f.svc.Chat(t.Context(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, constants.FallbackChatReply, res.Message)
}

func TestChatService_PersistFailureIsStorageError(t *testing.T) {
	f := newChatFixture(t)
	f.saver.err = errors.New("disk full")

	_, err := f.svc.Chat(t.Context(), "bakeries in Austin", &model.User{ID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestChatService_PersistsThroughRepository(t *testing.T) {
	db := newTestDB(t)
	f := newChatFixture(t)
	repo := repository.NewLeadRepository(db)
	f.svc.leads = repo

	user := &model.User{ID: uuid.New()}
	_, err := f.svc.Chat(t.Context(), "bakeries in Austin", user)
	require.NoError(t, err)

	stored, err := NewLeadService(repo).List(t.Context(), dto.LeadFilter{UserID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
