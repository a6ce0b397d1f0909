package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const EmailKey contextKey = "email"

// NewAuthMiddleware returns a huma middleware enforcing the cookie
// session on every operation that declares a security requirement.
// Public operations (login, health) pass through untouched. On
// success the normalized email lands in the request context under
// EmailKey.
func NewAuthMiddleware(api huma.API, h *AuthHandler) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op == nil || len(op.Security) == 0 {
			next(ctx)
			return
		}

		cookie, err := huma.ReadCookie(ctx, "auth_token")
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "No token found")
			return
		}

		token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(h.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Invalid token claims")
			return
		}
		email, ok := claims["email"].(string)
		if !ok || email == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		// Sliding session: refresh token if it's more than halfway through its duration
		if exp, ok := claims["exp"].(float64); ok {
			remaining := time.Until(time.Unix(int64(exp), 0))
			if remaining < TokenDuration/2 {
				if newToken, err := h.GenerateToken(email); err == nil {
					refreshed := http.Cookie{
						Name:     "auth_token",
						Value:    newToken,
						Expires:  time.Now().Add(TokenDuration),
						HttpOnly: true,
						Path:     "/",
					}
					ctx.AppendHeader("Set-Cookie", refreshed.String())
				}
			}
		}

		next(huma.WithValue(ctx, EmailKey, email))
	}
}
