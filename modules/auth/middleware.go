package auth

import (
	"context"
	"net/http"
	"strings"

	"ai-studio-server/modules/common/apperr"
	"ai-studio-server/modules/common/model"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext - the authenticated user set by RequireAdmin
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// RequireAdmin - admin/super_admin gate for the /admin subrouter. The token
// comes from the Authorization header, or from a token query parameter for
// WebSocket clients that cannot set headers.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			apperr.Write(w, apperr.Unauthorized("Missing access token"))
			return
		}

		user, err := s.ValidateAccessToken(r.Context(), token)
		if err != nil {
			apperr.Write(w, err)
			return
		}

		if user.Role != model.RoleAdmin && user.Role != model.RoleSuperAdmin {
			apperr.Write(w, apperr.Unauthorized("Admin access required"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
