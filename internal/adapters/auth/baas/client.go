package baas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-reports-map/internal/platform/httpclient"
	"pet-reports-map/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("baas client not configured")
	ErrUnauthorized  = errors.New("baas unauthorized")
	ErrUpstream      = errors.New("baas upstream error")
)

// Config del cliente del BaaS. APIKey es la anon key del proyecto.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http *httpclient.Client
	ok   bool
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return &Client{}, nil
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout, httpclient.WithHeader("apikey", strings.TrimSpace(cfg.APIKey)))
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, ok: true}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.ok
}

// GetUser pide al BaaS el usuario dueño del token (GET /auth/v1/user).
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	err := c.http.DoJSON(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    "/auth/v1/user",
		Headers: map[string]string{"Authorization": "Bearer " + token},
		Out:     &out,
	})
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, ErrUnauthorized
		default:
			return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing id", ErrUpstream)
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
		Role:   strings.TrimSpace(out.Role),
	}, nil
}
