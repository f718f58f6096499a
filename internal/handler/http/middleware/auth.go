package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/vidyadesk/school-backend-go/internal/handler/http/response"
)

// AuthRequired rejects requests without a valid access token carrying a
// school_id claim.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}
			if schoolID, ok := claims["school_id"].(string); !ok || schoolID == "" {
				response.Unauthorized(w, "Token is not bound to a school")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
