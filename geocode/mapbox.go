// Package geocode suggests delivery addresses through the Mapbox geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/vTempo/afroditis-delicacies/models"
)

const defaultBaseURL = "https://api.mapbox.com"

// MinQueryLength is the shortest input that is sent to Mapbox.
const MinQueryLength = 3

var ErrNoToken = errors.New("mapbox token not configured")

type ContextEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code,omitempty"`
}

// Suggestion is one address candidate.
type Suggestion struct {
	ID            string         `json:"id"`
	PlaceName     string         `json:"placeName"`
	MainText      string         `json:"mainText"`
	SecondaryText string         `json:"secondaryText"`
	Context       []ContextEntry `json:"context"`
	Address       models.Address `json:"address"`
}

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type featureCollection struct {
	Features []struct {
		ID        string         `json:"id"`
		PlaceName string         `json:"place_name"`
		Context   []ContextEntry `json:"context"`
	} `json:"features"`
}

// Search returns up to five US street-address suggestions for input. Inputs
// shorter than MinQueryLength return no suggestions without a request.
func (c *Client) Search(ctx context.Context, input string) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if len([]rune(input)) < MinQueryLength {
		return []Suggestion{}, nil
	}
	if c.token == "" {
		return nil, ErrNoToken
	}

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("country", "US")
	q.Set("types", "address")
	q.Set("limit", "5")
	q.Set("autocomplete", "true")
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", c.baseURL, url.PathEscape(input), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build mapbox request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapbox API error: %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode mapbox response: %w", err)
	}

	out := make([]Suggestion, 0, len(fc.Features))
	for _, f := range fc.Features {
		main, secondary := f.PlaceName, ""
		if i := strings.Index(f.PlaceName, ", "); i >= 0 {
			main, secondary = f.PlaceName[:i], f.PlaceName[i+2:]
		}
		ctxEntries := f.Context
		if ctxEntries == nil {
			ctxEntries = []ContextEntry{}
		}
		s := Suggestion{
			ID:            f.ID,
			PlaceName:     f.PlaceName,
			MainText:      main,
			SecondaryText: secondary,
			Context:       ctxEntries,
		}
		s.Address = ParseAddress(s)
		out = append(out, s)
	}
	return out, nil
}

var stateZip = regexp.MustCompile(`([A-Z]{2})\s*(\d{5})`)

// ParseAddress splits a suggestion into address fields, preferring the
// Mapbox context entries and falling back to the comma-separated place name.
func ParseAddress(s Suggestion) models.Address {
	addr := models.Address{Street: s.MainText, Country: "United States"}

	for _, e := range s.Context {
		switch {
		case strings.HasPrefix(e.ID, "postcode."):
			addr.ZipCode = e.Text
		case strings.HasPrefix(e.ID, "place."):
			addr.City = e.Text
		case strings.HasPrefix(e.ID, "region."):
			if e.ShortCode != "" {
				addr.State = strings.TrimPrefix(e.ShortCode, "US-")
			} else {
				addr.State = e.Text
			}
		case strings.HasPrefix(e.ID, "country."):
			addr.Country = e.Text
		}
	}

	if addr.City == "" || addr.State == "" {
		parts := strings.Split(s.PlaceName, ", ")
		if len(parts) >= 3 {
			addr.Street = parts[0]
			addr.City = parts[1]
			if m := stateZip.FindStringSubmatch(parts[2]); m != nil {
				addr.State = m[1]
				addr.ZipCode = m[2]
			}
		}
	}

	addr.Street = strings.TrimSpace(addr.Street)
	addr.City = strings.TrimSpace(addr.City)
	addr.State = strings.TrimSpace(addr.State)
	addr.ZipCode = strings.TrimSpace(addr.ZipCode)
	addr.Country = strings.TrimSpace(addr.Country)
	return addr
}
