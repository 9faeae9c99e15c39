package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid login credentials")

type service struct {
	repo Repository
	cost int
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *service) RegisterUser(ctx context.Context, email, password, displayName string) (*User, error) {
	email = normaliseEmail(email)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(displayName) == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(displayName),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
