package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"merchant/apperr"
)

const (
	geoapifyURL = "https://api.geoapify.com/v1/geocode/autocomplete"
	minQueryLen = 3
)

type Location struct {
	Formatted string
	Lat       float64
	Lng       float64
}

// Geocoder suggests addresses while the merchant types. Lookups are
// throttled so a fast typist does not burn through the API quota.
type Geocoder struct {
	endpoint string
	apiKey   string
	http     *http.Client
	limiter  *rate.Limiter
}

func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		endpoint: geoapifyURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 5 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
	}
}

// WithEndpoint points the geocoder at another autocomplete URL.
func (g *Geocoder) WithEndpoint(endpoint string) *Geocoder {
	g.endpoint = endpoint
	return g
}

type featureCollection struct {
	Features []struct {
		Properties struct {
			Formatted string `json:"formatted"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lng, lat
		} `json:"geometry"`
	} `json:"features"`
}

// Suggest returns candidate locations for query. Queries shorter than three
// characters return nothing without a lookup.
func (g *Geocoder) Suggest(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return nil, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("text", query)
	q.Set("apiKey", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("agents: build geocode request: %w", err)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.Network(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.RequestFailed(resp.StatusCode, "Address lookup failed.")
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, apperr.RequestFailed(resp.StatusCode, "Address lookup returned an unexpected response.")
	}
	out := make([]Location, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		out = append(out, Location{
			Formatted: f.Properties.Formatted,
			Lng:       f.Geometry.Coordinates[0],
			Lat:       f.Geometry.Coordinates[1],
		})
	}
	return out, nil
}
