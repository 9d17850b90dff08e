package admin

import (
	"net/http"
	"strings"

	"github.com/clinkr/clinkr-api/internal/pkg/response"
)

// AuthMiddleware guards operator-only routes. The token comes from the
// Authorization header; WebSocket clients cannot set headers, so a
// token query parameter is accepted as well.
func AuthMiddleware(jwtSvc *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				response.Unauthorized(w, "Missing authorization token")
				return
			}

			if _, err := jwtSvc.ValidateToken(token); err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
