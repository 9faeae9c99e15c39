package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandboxGateway(t *testing.T) {
	gw := NewSandboxGateway()
	ctx := context.Background()

	s, err := gw.CreateSession(ctx, SessionRequest{
		LineItems:  []LineItem{{Name: "x", UnitAmount: 100, Quantity: 1}},
		SuccessURL: "http://localhost:3000/payment-success?session_id=" + SessionIDPlaceholder,
		Metadata:   map[string]string{"user_id": "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/payment-success?session_id="+s.ID, s.URL)

	v, err := gw.VerifySession(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, v.Paid)
	assert.Equal(t, "u1", v.Metadata["user_id"])

	_, err = gw.VerifySession(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = gw.CreateSession(ctx, SessionRequest{})
	assert.Error(t, err)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	inner := &fakeGateway{err: errors.New("503 service unavailable")}
	gw := WithBreaker(inner, BreakerConfig{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	})
	ctx := context.Background()
	req := SessionRequest{LineItems: []LineItem{{Name: "x", UnitAmount: 1, Quantity: 1}}}

	for i := 0; i < 2; i++ {
		_, err := gw.CreateSession(ctx, req)
		require.Error(t, err)
	}
	assert.Equal(t, 2, inner.calls)

	_, err := gw.CreateSession(ctx, req)
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls, "open breaker must not reach the provider")
	assert.Equal(t, "payment provider is temporarily unavailable", providerMessage(err))
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &fakeGateway{session: &Session{ID: "cs_1", URL: "https://pay"}, verified: &Verification{Paid: true}}
	gw := WithBreaker(inner, DefaultBreakerConfig)

	s, err := gw.CreateSession(context.Background(), SessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)

	v, err := gw.VerifySession(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.True(t, v.Paid)
}
