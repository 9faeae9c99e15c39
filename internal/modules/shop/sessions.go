package shop

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/google/uuid"
)

// SessionHeader carries the shop session id between client and server.
const SessionHeader = "X-Session-ID"

type SessionsConfig struct {
	// IdleTimeout evicts a session not touched for this long.
	IdleTimeout time.Duration
	// MaxSessions bounds live sessions; the least recently used is evicted first.
	MaxSessions int
}

var DefaultSessionsConfig = SessionsConfig{
	IdleTimeout: 30 * time.Minute,
	MaxSessions: 10000,
}

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// Sessions owns the per-session stores. Ids are always minted here; a client
// cannot choose its own.
type Sessions struct {
	catalog Catalog
	roles   RoleChecker
	cfg     SessionsConfig
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
	onClose []func(sessionID string)
}

func NewSessions(c Catalog, roles RoleChecker, cfg SessionsConfig) *Sessions {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultSessionsConfig.IdleTimeout
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultSessionsConfig.MaxSessions
	}
	return &Sessions{
		catalog: c,
		roles:   roles,
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*sessionEntry),
	}
}

// Open starts a new session under a fresh id and loads its products.
func (s *Sessions) Open(ctx context.Context) (string, *Store) {
	id := uuid.NewString()
	store := NewStore(s.catalog, s.roles)

	s.mu.Lock()
	now := s.now()
	evicted := s.expireLocked(now)
	if len(s.entries) >= s.cfg.MaxSessions {
		evicted = append(evicted, s.evictOldestLocked(len(s.entries)-s.cfg.MaxSessions+1)...)
	}
	s.entries[id] = &sessionEntry{store: store, lastSeen: now}
	hooks := s.onClose
	s.mu.Unlock()

	s.runHooks(hooks, evicted, "evicted")
	logx.Debug().Str("session_id", id).Msg("shop session opened")

	if _, err := store.FetchProducts(ctx); err != nil {
		logx.Warn().Err(err).Str("session_id", id).Msg("initial product load failed")
	}
	return id, store
}

// Get returns a live session and marks it used. Idle sessions are not returned.
func (s *Sessions) Get(sessionID string) (*Store, bool) {
	s.mu.Lock()
	e, ok := s.entries[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) >= s.cfg.IdleTimeout {
		delete(s.entries, sessionID)
		hooks := s.onClose
		s.mu.Unlock()
		s.runHooks(hooks, []string{sessionID}, "expired")
		return nil, false
	}
	e.lastSeen = now
	s.mu.Unlock()
	return e.store, true
}

// Close discards the session's store and runs the close hooks.
func (s *Sessions) Close(sessionID string) {
	s.mu.Lock()
	_, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	hooks := s.onClose
	s.mu.Unlock()

	if ok {
		s.runHooks(hooks, []string{sessionID}, "closed")
	}
}

// Sweep evicts every idle session and reports how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	evicted := s.expireLocked(s.now())
	hooks := s.onClose
	s.mu.Unlock()

	s.runHooks(hooks, evicted, "expired")
	return len(evicted)
}

// Run sweeps idle sessions until ctx is done.
func (s *Sessions) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.IdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logx.Debug().Int("count", n).Msg("idle shop sessions swept")
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// OnClose registers fn to run after a session is closed or evicted.
func (s *Sessions) OnClose(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

func (s *Sessions) expireLocked(now time.Time) []string {
	var evicted []string
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) >= s.cfg.IdleTimeout {
			delete(s.entries, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

func (s *Sessions) evictOldestLocked(n int) []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.entries[ids[i]].lastSeen.Before(s.entries[ids[j]].lastSeen)
	})
	if n > len(ids) {
		n = len(ids)
	}
	for _, id := range ids[:n] {
		delete(s.entries, id)
	}
	return ids[:n]
}

func (s *Sessions) runHooks(hooks []func(string), ids []string, reason string) {
	for _, id := range ids {
		for _, fn := range hooks {
			fn(id)
		}
		logx.Debug().Str("session_id", id).Str("reason", reason).Msg("shop session closed")
	}
}

type ctxKey int

const (
	ctxStore ctxKey = iota
	ctxSessionID
)

// Middleware attaches the caller's store to the request. A missing, unknown or
// expired id gets a new server-minted session, returned in SessionHeader.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		store, ok := s.Get(id)
		if !ok {
			id, store = s.Open(r.Context())
		}
		w.Header().Set(SessionHeader, id)

		ctx := context.WithValue(r.Context(), ctxStore, store)
		ctx = context.WithValue(ctx, ctxSessionID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StoreFrom returns the store attached by Middleware, or nil.
func StoreFrom(ctx context.Context) *Store {
	s, _ := ctx.Value(ctxStore).(*Store)
	return s
}

func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxSessionID).(string)
	return id
}
