package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
)

var adminRoles = map[string]bool{
	"admin":     true,
	"principal": true,
	"director":  true,
}

// AdminOnly restricts a route to school administration roles.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !adminRoles[role] {
			response.Forbidden(w, "Admin privileges required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
