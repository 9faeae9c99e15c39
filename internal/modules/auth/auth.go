package auth

import (
	"context"
	"time"

	"github.com/georgemunganga/novashop/internal/modules/user"
)

// Service defines the identity provider used by the storefront.
type Service interface {
	// SignUp creates an account. When asSeller is set, a durable seller-role
	// intent is recorded and granted on the user's next successful sign-in.
	SignUp(ctx context.Context, email, password string, asSeller bool) (*user.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*user.User, error)
}

// Session is an authenticated sign-in.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}
