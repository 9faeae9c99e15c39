package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/novashop/internal/modules/user"
	logx "github.com/georgemunganga/novashop/pkg/logger"
)

type ctxKey int

const (
	ctxUser ctxKey = iota
	ctxToken
)

// Middleware resolves a bearer token into the current user. Requests without a
// valid token pass through anonymously; handlers that need a user check UserFrom.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxToken, token)
			u, err := svc.CurrentUser(ctx, token)
			if err != nil {
				logx.Debug().Err(err).Msg("anonymous request: session rejected")
			} else {
				ctx = WithUser(ctx, u)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxUser, u)
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(ctxUser).(*user.User)
	return u
}

// TokenFrom returns the raw bearer token presented with the request.
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(ctxToken).(string)
	return t
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
