package role

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type grantKey struct {
	user uuid.UUID
	role Role
}

type memoryRepo struct {
	mu       sync.Mutex
	grants   map[grantKey]bool
	intents  map[grantKey]*Intent
	grantErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{grants: map[grantKey]bool{}, intents: map[grantKey]*Intent{}}
}

func (m *memoryRepo) Grant(_ context.Context, userID uuid.UUID, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.grantErr != nil {
		return m.grantErr
	}
	m.grants[grantKey{userID, role}] = true
	return nil
}

func (m *memoryRepo) Has(_ context.Context, userID uuid.UUID, role Role) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grants[grantKey{userID, role}], nil
}

func (m *memoryRepo) SaveIntent(_ context.Context, userID uuid.UUID, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := grantKey{userID, role}
	if _, ok := m.intents[k]; !ok {
		m.intents[k] = &Intent{UserID: userID, Role: role, CreatedAt: time.Now()}
	}
	return nil
}

func (m *memoryRepo) PendingIntents(_ context.Context, userID uuid.UUID) ([]*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Intent
	for k, in := range m.intents {
		if k.user == userID && in.FulfilledAt == nil {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *memoryRepo) MarkFulfilled(_ context.Context, userID uuid.UUID, role Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.intents[grantKey{userID, role}]; ok && in.FulfilledAt == nil {
		now := time.Now()
		in.FulfilledAt = &now
	}
	return nil
}

func TestReconcile_GrantsPendingIntentOnce(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.RecordIntent(ctx, userID, Seller))
	ok, err := svc.Check(ctx, userID, Seller)
	require.NoError(t, err)
	assert.False(t, ok)

	granted, err := svc.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []Role{Seller}, granted)

	ok, err = svc.Check(ctx, userID, Seller)
	require.NoError(t, err)
	assert.True(t, ok)

	granted, err = svc.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, granted)

	ok, _ = svc.Check(ctx, userID, Seller)
	assert.True(t, ok)
}

func TestReconcile_NoIntent(t *testing.T) {
	svc := NewService(newMemoryRepo())

	granted, err := svc.Reconcile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, granted)
}

func TestReconcile_GrantFailureKeepsIntentPending(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, svc.RecordIntent(ctx, userID, Seller))

	repo.grantErr = errors.New("db down")
	_, err := svc.Reconcile(ctx, userID)
	assert.ErrorIs(t, err, errx.ErrStore)

	pending, _ := repo.PendingIntents(ctx, userID)
	assert.Len(t, pending, 1)

	repo.grantErr = nil
	granted, err := svc.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []Role{Seller}, granted)
}
