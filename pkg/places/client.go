package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Payphone-Digital/leadgen/pkg/upstream"
)

// ErrNoResults is returned when the API answered ZERO_RESULTS
var ErrNoResults = errors.New("places: no results")

// Status values of the Maps web service envelope
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// APIError is a non-OK status in an otherwise successful HTTP response
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "places: " + e.Status
	}
	return fmt.Sprintf("places: %s: %s", e.Status, e.Message)
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

type Place struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Vicinity string   `json:"vicinity"`
	Types    []string `json:"types"`
}

type Details struct {
	Website              string `json:"website"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
}

type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (e envelope) err() error {
	switch e.Status {
	case statusOK:
		return nil
	case statusZeroResults:
		return ErrNoResults
	default:
		return &APIError{Status: e.Status, Message: e.ErrorMessage}
	}
}

// Client talks to the Geocoding and Places web services
type Client struct {
	client  *upstream.Client
	baseURL string
	apiKey  string
}

func NewClient(client *upstream.Client, baseURL, apiKey string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	query.Set("key", c.apiKey)
	return c.client.DoJSON(ctx, upstream.Request{
		URL:   c.baseURL + path,
		Query: query,
	}, out)
}

// Geocode resolves a free-form location to coordinates of the best match
func (c *Client) Geocode(ctx context.Context, address string) (LatLng, error) {
	var resp struct {
		envelope
		Results []struct {
			Geometry struct {
				Location LatLng `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}

	if err := c.get(ctx, "/geocode/json", url.Values{"address": {address}}, &resp); err != nil {
		return LatLng{}, err
	}
	if err := resp.err(); err != nil {
		return LatLng{}, err
	}
	if len(resp.Results) == 0 {
		return LatLng{}, ErrNoResults
	}
	return resp.Results[0].Geometry.Location, nil
}

// NearbySearch finds places matching keyword within radius meters of location
func (c *Client) NearbySearch(ctx context.Context, location LatLng, radius int, keyword string) ([]Place, error) {
	var resp struct {
		envelope
		Results []Place `json:"results"`
	}

	query := url.Values{
		"location": {location.String()},
		"radius":   {strconv.Itoa(radius)},
		"keyword":  {keyword},
	}
	if err := c.get(ctx, "/place/nearbysearch/json", query, &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		if errors.Is(err, ErrNoResults) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Results, nil
}

// Details fetches the contact fields of a place
func (c *Client) Details(ctx context.Context, placeID string) (Details, error) {
	var resp struct {
		envelope
		Result Details `json:"result"`
	}

	query := url.Values{
		"place_id": {placeID},
		"fields":   {"website,formatted_phone_number"},
	}
	if err := c.get(ctx, "/place/details/json", query, &resp); err != nil {
		return Details{}, err
	}
	if err := resp.err(); err != nil {
		return Details{}, err
	}
	return resp.Result, nil
}
