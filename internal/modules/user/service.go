package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	RegisterUser(ctx context.Context, email, password, displayName string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}
