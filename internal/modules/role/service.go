package role

import (
	"context"

	"github.com/georgemunganga/novashop/internal/core/errx"
	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/google/uuid"
)

// Service answers "does user X have role Y" and reconciles grant intents.
type Service interface {
	Check(ctx context.Context, userID uuid.UUID, role Role) (bool, error)
	Grant(ctx context.Context, userID uuid.UUID, role Role) error
	RecordIntent(ctx context.Context, userID uuid.UUID, role Role) error
	// Reconcile grants every pending intent of the user. Safe to run repeatedly.
	Reconcile(ctx context.Context, userID uuid.UUID) ([]Role, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Check(ctx context.Context, userID uuid.UUID, role Role) (bool, error) {
	ok, err := s.repo.Has(ctx, userID, role)
	if err != nil {
		return false, errx.Store("check role", err)
	}
	return ok, nil
}

func (s *service) Grant(ctx context.Context, userID uuid.UUID, role Role) error {
	return errx.Store("grant role", s.repo.Grant(ctx, userID, role))
}

func (s *service) RecordIntent(ctx context.Context, userID uuid.UUID, role Role) error {
	return errx.Store("record role intent", s.repo.SaveIntent(ctx, userID, role))
}

func (s *service) Reconcile(ctx context.Context, userID uuid.UUID) ([]Role, error) {
	intents, err := s.repo.PendingIntents(ctx, userID)
	if err != nil {
		return nil, errx.Store("load role intents", err)
	}

	var granted []Role
	for _, in := range intents {
		// grant first: a crash between the two steps leaves the intent pending, and
		// re-granting is a no-op
		if err := s.repo.Grant(ctx, userID, in.Role); err != nil {
			return granted, errx.Store("grant role", err)
		}
		if err := s.repo.MarkFulfilled(ctx, userID, in.Role); err != nil {
			return granted, errx.Store("fulfil role intent", err)
		}
		logx.Info().Str("user_id", userID.String()).Str("role", string(in.Role)).Msg("role intent reconciled")
		granted = append(granted, in.Role)
	}
	return granted, nil
}
