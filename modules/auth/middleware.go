package auth

import (
	"context"
	"net/http"

	"github.com/eventreport/backend/pkg/httpx"
	"github.com/eventreport/backend/pkg/jwt"
)

type ctxKey struct{}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// RequireUser is middleware that verifies the bearer token and loads
// the account it names into the request context. Requests without a
// valid token, or for accounts that no longer exist or are disabled,
// are rejected with 401.
func (s *Service) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := jwt.BearerTokenExtractor(r)
		if err != nil {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}

		var claims jwt.StandardClaims
		if err := s.jwt.Parse(token, &claims); err != nil {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}
		if err := claims.Valid(); err != nil {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}

		u, err := s.repo.FindByEmail(r.Context(), claims.Subject)
		if err != nil || !u.IsActive {
			httpx.Error(w, httpx.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
