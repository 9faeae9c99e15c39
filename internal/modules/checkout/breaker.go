package checkout

import (
	"context"
	"errors"
	"time"

	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// consecutive failures before the breaker opens
	FailureThreshold uint32
}

var DefaultBreakerConfig = BreakerConfig{
	Name:             "payment-gateway",
	MaxRequests:      1,
	Interval:         time.Minute,
	Timeout:          30 * time.Second,
	FailureThreshold: 5,
}

// breakerGateway fails session creation fast while the provider is unhealthy.
type breakerGateway struct {
	next Gateway
	cb   *gobreaker.CircuitBreaker[*Session]
}

func WithBreaker(next Gateway, cfg BreakerConfig) Gateway {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logx.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &breakerGateway{next: next, cb: gobreaker.NewCircuitBreaker[*Session](settings)}
}

func (b *breakerGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	s, err := b.cb.Execute(func() (*Session, error) {
		return b.next.CreateSession(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &ProviderError{Message: "payment provider is temporarily unavailable", Err: err}
	}
	return s, err
}

func (b *breakerGateway) VerifySession(ctx context.Context, sessionID string) (*Verification, error) {
	return b.next.VerifySession(ctx, sessionID)
}
