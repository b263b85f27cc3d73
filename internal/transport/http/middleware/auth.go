package middleware

import (
	"context"
	"net/http"
	"strings"

	"intranet/internal/domain/auth"
	"intranet/internal/requestctx"
)

// Auth parses a bearer token when present and attaches the user context.
// Requests without a valid token pass through anonymous; route guards decide
// what anonymity may reach.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithUser(r.Context(), auth.UserContext{
				UserID:    claims.UserID,
				RUT:       claims.RUT,
				RoleLevel: claims.RoleLevel,
				AreaID:    claims.AreaID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	return requestctx.GetUser(ctx)
}
