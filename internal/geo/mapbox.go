// Package geo resolves listing addresses to static map images.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/estate-agency/internal/config"
)

var (
	// ErrNotConfigured is returned when no access token is set.
	ErrNotConfigured = errors.New("geo: map provider not configured")
	// ErrAddressNotFound is returned when geocoding yields no match.
	ErrAddressNotFound = errors.New("geo: address not found")
)

//go:generate mockgen -destination=../mocks/geo_mock.go -package=mocks github.com/spec-kit/estate-agency/internal/geo MapProvider

// MapProvider returns an image URL showing address.
type MapProvider interface {
	StaticMapURL(ctx context.Context, address string) (string, error)
}

// Mapbox geocodes with the places API and builds a static images URL.
type Mapbox struct {
	client  *http.Client
	baseURL string
	token   string
	style   string
	width   int
	height  int
	zoom    int
}

// NewMapbox builds a provider from config. A nil client uses a 5 second timeout.
func NewMapbox(cfg config.MapsConfig, client *http.Client) *Mapbox {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Mapbox{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		style:   cfg.Style,
		width:   cfg.Width,
		height:  cfg.Height,
		zoom:    cfg.Zoom,
	}
}

type geocodeResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// StaticMapURL geocodes address and returns a pinned static map URL.
func (m *Mapbox) StaticMapURL(ctx context.Context, address string) (string, error) {
	if m.token == "" {
		return "", ErrNotConfigured
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrAddressNotFound
	}

	q := url.Values{}
	q.Set("access_token", m.token)
	q.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", m.baseURL, url.PathEscape(address), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("geocode: %w", err)
	}
	if len(body.Features) == 0 || len(body.Features[0].Center) < 2 {
		return "", ErrAddressNotFound
	}

	lon := strconv.FormatFloat(body.Features[0].Center[0], 'f', 6, 64)
	lat := strconv.FormatFloat(body.Features[0].Center[1], 'f', 6, 64)
	return fmt.Sprintf("%s/styles/v1/%s/static/pin-s+ff0000(%s,%s)/%s,%s,%d/%dx%d?access_token=%s",
		m.baseURL, m.style, lon, lat, lon, lat, m.zoom, m.width, m.height, url.QueryEscape(m.token)), nil
}
