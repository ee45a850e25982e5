package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-reports-map/internal/platform/httpclient"
)

var (
	ErrUpstream = errors.New("nominatim upstream error")
	ErrNoResult = errors.New("nominatim: no address for coordinates")
)

type Config struct {
	BaseURL   string
	UserAgent string
	// Language va en accept-language, p.ej. "ar,en".
	Language string
	Timeout  time.Duration
}

// Client implementa geocoding.ReverseGeocoder contra GET /reverse?format=jsonv2.
type Client struct {
	http     *httpclient.Client
	language string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout, httpclient.WithHeader("User-Agent", cfg.UserAgent))
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, language: strings.TrimSpace(cfg.Language)}, nil
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	if c.language != "" {
		q.Set("accept-language", c.language)
	}

	var out reverseResponse
	if err := c.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/reverse",
		Query:  q,
		Out:    &out,
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// Nominatim responde 200 con {"error": "..."} cuando no hay nada (mar abierto).
	if out.Error != "" || strings.TrimSpace(out.DisplayName) == "" {
		return "", ErrNoResult
	}
	return strings.TrimSpace(out.DisplayName), nil
}
