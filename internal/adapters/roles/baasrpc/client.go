package baasrpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-reports-map/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("has_role rpc not configured")
	ErrUnauthorized  = errors.New("has_role rpc unauthorized")
	ErrUpstream      = errors.New("has_role rpc upstream error")
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Checker implementa roles.Checker llamando a POST /rest/v1/rpc/has_role.
// El caller trata cualquier error como "sin rol".
type Checker struct {
	http *httpclient.Client
}

func NewChecker(cfg Config) (*Checker, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) == "" || key == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout,
		httpclient.WithHeader("apikey", key),
		httpclient.WithHeader("Authorization", "Bearer "+key),
	)
	if err != nil {
		return nil, err
	}
	return &Checker{http: hc}, nil
}

type hasRoleRequest struct {
	UserID string `json:"_user_id"`
	Role   string `json:"_role"`
}

func (c *Checker) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if c == nil || c.http == nil {
		return false, ErrNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, nil
	}

	var out bool
	err := c.http.DoJSON(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/rest/v1/rpc/has_role",
		In:     hasRoleRequest{UserID: userID, Role: role},
		Out:    &out,
	})
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false, ErrUnauthorized
		default:
			return false, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
	}
	return out, nil
}
