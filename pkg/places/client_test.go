package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/Payphone-Digital/leadgen/pkg/pool"
	"github.com/Payphone-Digital/leadgen/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMapsServer(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geocode/json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "maps-key", r.URL.Query().Get("key"))
		if r.URL.Query().Get("address") == "Atlantis" {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"geometry":{"location":{"lat":40.7128,"lng":-74.006}}}]}`))
	})
	mux.HandleFunc("/place/nearbysearch/json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "40.7128,-74.006", r.URL.Query().Get("location"))
		assert.Equal(t, "5000", r.URL.Query().Get("radius"))
		assert.Equal(t, "dentist", r.URL.Query().Get("keyword"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[
			{"place_id":"p1","name":"Bright Smile","vicinity":"1 Main St"},
			{"place_id":"p2","name":"Tooth Co","vicinity":"2 Main St"}]}`))
	})
	mux.HandleFunc("/place/details/json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("place_id") == "denied" {
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{"website":"https://smile.example","formatted_phone_number":"(212) 555-0100"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := upstream.NewClient(
		upstream.Config{Name: "maps", Timeout: time.Second},
		pool.NewConnectionPool(pool.DefaultPoolConfig(), zap.NewNop()),
		circuit.NewBreakerRegistry(upstream.BreakerConfig(5, time.Minute), zap.NewNop()),
	)
	return NewClient(client, srv.URL, "maps-key")
}

func TestClient_GeocodeAndSearch(t *testing.T) {
	c := newMapsServer(t)
	ctx := context.Background()

	loc, err := c.Geocode(ctx, "New York")
	require.NoError(t, err)
	assert.InDelta(t, 40.7128, loc.Lat, 1e-9)

	found, err := c.NearbySearch(ctx, loc, 5000, "dentist")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Bright Smile", found[0].Name)
	assert.Equal(t, "1 Main St", found[0].Vicinity)
}

func TestClient_GeocodeZeroResults(t *testing.T) {
	c := newMapsServer(t)

	_, err := c.Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestClient_Details(t *testing.T) {
	c := newMapsServer(t)

	d, err := c.Details(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "https://smile.example", d.Website)
	assert.Equal(t, "(212) 555-0100", d.FormattedPhoneNumber)

	_, err = c.Details(context.Background(), "denied")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "REQUEST_DENIED", apiErr.Status)
}
