package shop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSessions(c Catalog, cfg SessionsConfig) (*Sessions, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessions(c, &fakeRoles{}, cfg)
	s.now = clock.Now
	return s, clock
}

func TestSessions_OpenLoadsProducts(t *testing.T) {
	cat := &fakeCatalog{list: func(context.Context) ([]*catalog.Product, error) {
		return []*catalog.Product{product("a", 100)}, nil
	}}
	sessions, _ := newTestSessions(cat, DefaultSessionsConfig)

	id, s1 := sessions.Open(context.Background())
	got, ok := sessions.Get(id)

	require.True(t, ok)
	assert.Same(t, s1, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&cat.listCalls))
	assert.Len(t, s1.Products(), 1)
}

func TestSessions_OpenMintsDistinctIDs(t *testing.T) {
	sessions, _ := newTestSessions(&fakeCatalog{}, DefaultSessionsConfig)

	a, sa := sessions.Open(context.Background())
	b, sb := sessions.Open(context.Background())

	assert.NotEqual(t, a, b)
	assert.NotSame(t, sa, sb)
}

func TestSessions_OpenSurvivesFetchFailure(t *testing.T) {
	cat := &fakeCatalog{list: func(context.Context) ([]*catalog.Product, error) {
		return nil, errors.New("down")
	}}
	sessions, _ := newTestSessions(cat, DefaultSessionsConfig)

	_, s := sessions.Open(context.Background())

	require.NotNil(t, s)
	assert.Empty(t, s.Products())
	assert.False(t, s.Loading())
}

func TestSessions_IsolatedCarts(t *testing.T) {
	sessions, _ := newTestSessions(&fakeCatalog{}, DefaultSessionsConfig)

	_, a := sessions.Open(context.Background())
	_, b := sessions.Open(context.Background())
	require.NoError(t, a.AddToCart(product("x", 100)))

	assert.Len(t, a.Cart(), 1)
	assert.Empty(t, b.Cart())
}

func TestSessions_CloseRunsHooks(t *testing.T) {
	sessions, _ := newTestSessions(&fakeCatalog{}, DefaultSessionsConfig)
	var closed []string
	sessions.OnClose(func(id string) { closed = append(closed, id) })

	id, _ := sessions.Open(context.Background())
	sessions.Close(id)
	sessions.Close(id)
	sessions.Close("never-opened")

	_, ok := sessions.Get(id)
	assert.False(t, ok)
	assert.Equal(t, []string{id}, closed)
}

func TestSessions_IdleSessionEvicted(t *testing.T) {
	sessions, clock := newTestSessions(&fakeCatalog{}, SessionsConfig{IdleTimeout: time.Minute, MaxSessions: 10})
	var closed []string
	sessions.OnClose(func(id string) { closed = append(closed, id) })

	idle, _ := sessions.Open(context.Background())
	active, _ := sessions.Open(context.Background())

	clock.Advance(40 * time.Second)
	_, ok := sessions.Get(active)
	require.True(t, ok)
	clock.Advance(40 * time.Second)

	assert.Equal(t, 1, sessions.Sweep())
	assert.Equal(t, []string{idle}, closed)
	assert.Equal(t, 1, sessions.Len())

	_, ok = sessions.Get(idle)
	assert.False(t, ok)
	_, ok = sessions.Get(active)
	assert.True(t, ok)
}

func TestSessions_GetExpiresLazily(t *testing.T) {
	sessions, clock := newTestSessions(&fakeCatalog{}, SessionsConfig{IdleTimeout: time.Minute, MaxSessions: 10})
	var closed []string
	sessions.OnClose(func(id string) { closed = append(closed, id) })

	id, _ := sessions.Open(context.Background())
	clock.Advance(time.Minute)

	_, ok := sessions.Get(id)
	assert.False(t, ok)
	assert.Equal(t, []string{id}, closed)
	assert.Zero(t, sessions.Len())
}

func TestSessions_CapacityEvictsLeastRecentlyUsed(t *testing.T) {
	sessions, clock := newTestSessions(&fakeCatalog{}, SessionsConfig{IdleTimeout: time.Hour, MaxSessions: 2})
	var closed []string
	sessions.OnClose(func(id string) { closed = append(closed, id) })

	first, _ := sessions.Open(context.Background())
	clock.Advance(time.Second)
	second, _ := sessions.Open(context.Background())
	clock.Advance(time.Second)
	_, ok := sessions.Get(first)
	require.True(t, ok)
	clock.Advance(time.Second)

	third, _ := sessions.Open(context.Background())

	assert.Equal(t, 2, sessions.Len())
	assert.Equal(t, []string{second}, closed)
	_, ok = sessions.Get(first)
	assert.True(t, ok)
	_, ok = sessions.Get(third)
	assert.True(t, ok)
}

func TestMiddleware_AssignsSessionID(t *testing.T) {
	sessions, _ := newTestSessions(&fakeCatalog{}, DefaultSessionsConfig)
	var seen *Store
	var seenID string
	h := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = StoreFrom(r.Context())
		seenID = SessionIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	id := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, seenID)
	stored, ok := sessions.Get(id)
	require.True(t, ok)
	assert.Same(t, stored, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, id)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Same(t, stored, seen)
	assert.Equal(t, 1, sessions.Len())
}

func TestMiddleware_IgnoresClientChosenID(t *testing.T) {
	sessions, _ := newTestSessions(&fakeCatalog{}, DefaultSessionsConfig)
	h := sessions.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "attacker-picked")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "attacker-picked", rec.Header().Get(SessionHeader))
	_, ok := sessions.Get("attacker-picked")
	assert.False(t, ok)
}

func TestMiddleware_BoundedUnderAnonymousLoad(t *testing.T) {
	cat := &fakeCatalog{}
	sessions, _ := newTestSessions(cat, SessionsConfig{IdleTimeout: time.Hour, MaxSessions: 50})
	h := sessions.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	for i := 0; i < 1000; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	assert.Equal(t, 50, sessions.Len())
}
