package middleware

import (
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/auth"
)

// AdminAuth rejects requests that do not carry a valid admin bearer token.
func AdminAuth(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Authentication required", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					problem.TypeUnauthorized, "Invalid credentials", err, env)
				return
			}
			if claims.Role != auth.RoleAdmin {
				problem.Write(w, r, http.StatusForbidden,
					problem.TypeUnauthorized, "Admin access required", auth.ErrInvalidToken, env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
