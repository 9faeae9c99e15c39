package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/modules/role"
	"github.com/georgemunganga/novashop/internal/modules/user"
	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/google/uuid"
)

const minPasswordLength = 6

type service struct {
	users  user.Service
	roles  role.Service
	tokens TokenStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new auth service.
func NewService(users user.Service, roles role.Service, tokens TokenStore, secret []byte, ttl time.Duration) Service {
	return &service{
		users:  users,
		roles:  roles,
		tokens: tokens,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *service) SignUp(ctx context.Context, email, password string, asSeller bool) (*user.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errx.New(errx.ErrAuth, err, http.StatusBadRequest, "Unable to validate email address: invalid format")
	}
	if len(password) < minPasswordLength {
		return nil, errx.New(errx.ErrAuth, nil, http.StatusBadRequest, fmt.Sprintf("Password should be at least %d characters.", minPasswordLength))
	}

	u, err := s.users.RegisterUser(ctx, email, password, "")
	if errors.Is(err, user.ErrEmailTaken) {
		return nil, errx.New(errx.ErrAuth, err, http.StatusBadRequest, "User already registered")
	}
	if err != nil {
		return nil, errx.Store("register user", err)
	}

	if asSeller {
		if err := s.roles.RecordIntent(ctx, u.ID, role.Seller); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		return nil, errx.Auth("Invalid login credentials", err)
	}
	if err != nil {
		return nil, errx.Store("authenticate", err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   u.ID.String(),
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, claims.Id, claims.Subject, s.ttl); err != nil {
		return nil, errx.Store("save session", err)
	}

	// pending role grants are settled here; a failure is retried on the next sign-in
	if _, err := s.roles.Reconcile(ctx, u.ID); err != nil {
		logx.Warn().Err(err).Str("user_id", u.ID.String()).Msg("role reconciliation failed")
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// signing out an unknown or expired token leaves nothing to revoke
		return nil
	}
	if err := s.tokens.Delete(ctx, claims.Id); err != nil {
		return errx.Store("revoke session", err)
	}
	return nil
}

func (s *service) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, errx.New(errx.ErrUnauthorized, err, http.StatusUnauthorized, "invalid or expired session")
	}

	userID, err := s.tokens.Lookup(ctx, claims.Id)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, errx.Unauthorized("session has been signed out")
	}
	if err != nil {
		return nil, errx.Store("lookup session", err)
	}
	if userID != claims.Subject {
		return nil, errx.Unauthorized("invalid or expired session")
	}

	u, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, errx.Unauthorized("account no longer exists")
	}
	if err != nil {
		return nil, errx.Store("load user", err)
	}
	return u, nil
}

func (s *service) parse(token string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Id == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
