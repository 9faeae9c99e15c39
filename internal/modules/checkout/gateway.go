package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Gateway is the provider-agnostic payment interface. To add a provider,
// implement this interface.
type Gateway interface {
	// CreateSession creates a hosted checkout page for the given line items.
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	// VerifySession reports whether the session has been paid.
	VerifySession(ctx context.Context, sessionID string) (*Verification, error)
}

// ProviderError carries the provider's human-readable failure message.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// providerMessage extracts the message to show the buyer.
func providerMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}

var ErrUnknownSession = errors.New("unknown checkout session")

// sandboxGateway accepts every checkout and redirects straight to the success URL.
type sandboxGateway struct {
	mu       sync.Mutex
	sessions map[string]map[string]string
}

func NewSandboxGateway() Gateway {
	return &sandboxGateway{sessions: make(map[string]map[string]string)}
}

func (g *sandboxGateway) CreateSession(_ context.Context, req SessionRequest) (*Session, error) {
	if len(req.LineItems) == 0 {
		return nil, &ProviderError{Message: "line_items must not be empty"}
	}
	id := "cs_sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	g.mu.Lock()
	g.sessions[id] = req.Metadata
	g.mu.Unlock()

	return &Session{ID: id, URL: strings.ReplaceAll(req.SuccessURL, SessionIDPlaceholder, id)}, nil
}

func (g *sandboxGateway) VerifySession(_ context.Context, sessionID string) (*Verification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	md, ok := g.sessions[sessionID]
	if !ok {
		return nil, &ProviderError{Message: "No such checkout session", Err: ErrUnknownSession}
	}
	return &Verification{SessionID: sessionID, Paid: true, Metadata: md}, nil
}
