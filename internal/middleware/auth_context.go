package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-reports-map/internal/ports/auth"

	"github.com/gorilla/websocket"
)

// accessTokenParam: solo se acepta en el upgrade de WebSocket.
const accessTokenParam = "access_token"

type ctxKey string

const claimsKey ctxKey = "claims"

// RoleResolver completa el rol declarado (perfil) del usuario autenticado.
type RoleResolver interface {
	DeclaredRole(ctx context.Context, userID string) (string, error)
}

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
//   En un upgrade de WebSocket el token puede venir en ?access_token=.
// - Si verifier == nil => modo dev: si viene header X-Debug-User-ID => setea claims
//   (X-Debug-User-Role opcional pisa el rol declarado).
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
// - Con roles != nil se completa DeclaredRole. Si falla queda vacío (sin privilegios).
func AuthContext(verifier auth.AuthVerifier, roles RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims auth.Claims
				ok     bool
			)

			if verifier == nil {
				// Dev mode: permitir inyectar user sin verifier
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					claims = auth.Claims{
						UserID:       uid,
						DeclaredRole: strings.ToLower(strings.TrimSpace(r.Header.Get("X-Debug-User-Role"))),
					}
					ok = true
				}
			} else if token := requestToken(r); token != "" {
				c, err := verifier.Verify(r.Context(), token)
				// No cortamos aquí para no acoplar. El handler decide 401/403.
				if err == nil {
					claims, ok = c, true
				}
			}

			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if claims.DeclaredRole == "" && roles != nil {
				if role, err := roles.DeclaredRole(r.Context(), claims.UserID); err == nil {
					claims.DeclaredRole = role
				}
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims mete claims en el contexto.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func requestToken(r *http.Request) string {
	if t := bearerToken(r.Header.Get("Authorization")); t != "" {
		return t
	}
	if websocket.IsWebSocketUpgrade(r) {
		return strings.TrimSpace(r.URL.Query().Get(accessTokenParam))
	}
	return ""
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
