package checkout

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/modules/pricing"
	"github.com/georgemunganga/novashop/internal/modules/shop"
	"github.com/georgemunganga/novashop/internal/modules/user"
	logx "github.com/georgemunganga/novashop/pkg/logger"
)

// Service turns a cart snapshot into a hosted payment redirect.
type Service interface {
	Checkout(ctx context.Context, req Request) (*Result, error)
	// Confirm verifies with the provider that the buyer paid the session.
	Confirm(ctx context.Context, buyer *user.User, sessionID string) error
}

// Request is one checkout attempt. Items must be a snapshot the caller will
// not mutate; BaseURL is the storefront origin used for the redirects.
type Request struct {
	Buyer   *user.User
	Items   []shop.CartItem
	BaseURL string
	Tracker *Tracker
}

type Result struct {
	SessionID string              `json:"session_id"`
	URL       string              `json:"url"`
	State     State               `json:"state"`
	Order     pricing.PricedOrder `json:"order"`
}

type service struct {
	gateway Gateway
}

func NewService(gateway Gateway) Service {
	return &service{gateway: gateway}
}

func (s *service) Checkout(ctx context.Context, req Request) (*Result, error) {
	if req.Buyer == nil {
		return nil, errx.Unauthorized("you must be signed in to check out")
	}
	if len(req.Items) == 0 {
		return nil, errx.EmptyCart()
	}
	tracker := req.Tracker
	if tracker == nil {
		tracker = NewTracker()
	}
	if err := tracker.Begin(); err != nil {
		if errors.Is(err, ErrInProgress) {
			return nil, errx.Conflict("checkout already in progress")
		}
		return nil, errx.Conflict("checkout already completed for this attempt")
	}

	order := pricing.Price(req.Items)
	sessionReq := BuildSessionRequest(req.Buyer, req.Items, order, req.BaseURL)

	session, err := s.gateway.CreateSession(ctx, sessionReq)
	if err == nil && (session == nil || session.URL == "") {
		err = &ProviderError{Message: "payment provider returned no checkout URL"}
	}
	if err != nil {
		tracker.Transition(Failed)
		logx.Error().Err(err).Str("user_id", req.Buyer.ID.String()).Int64("total", int64(order.Total)).Msg("checkout session creation failed")
		return nil, errx.CheckoutFailed(providerMessage(err), err)
	}

	tracker.Transition(Redirecting)
	logx.Info().Str("user_id", req.Buyer.ID.String()).Str("session_id", session.ID).Int64("total", int64(order.Total)).Msg("checkout session created")
	return &Result{SessionID: session.ID, URL: session.URL, State: tracker.State(), Order: order}, nil
}

func (s *service) Confirm(ctx context.Context, buyer *user.User, sessionID string) error {
	if buyer == nil {
		return errx.Unauthorized("you must be signed in to confirm a payment")
	}
	if strings.TrimSpace(sessionID) == "" {
		return errx.Invalid("session_id is required")
	}

	v, err := s.gateway.VerifySession(ctx, sessionID)
	if err != nil {
		return errx.CheckoutFailed(providerMessage(err), err)
	}
	if v == nil {
		return errx.CheckoutFailed("payment provider returned no session", nil)
	}
	// every session created here carries user_id; one without it is not ours to confirm
	if v.Metadata["user_id"] != buyer.ID.String() {
		return errx.Forbidden("checkout session belongs to another user")
	}
	if !v.Paid {
		return errx.New(errx.ErrCheckoutFailed, nil, http.StatusPaymentRequired, "payment has not been completed")
	}
	return nil
}

// BuildSessionRequest maps cart lines to provider line items, adding the
// platform fee line when the commission is positive.
func BuildSessionRequest(buyer *user.User, items []shop.CartItem, order pricing.PricedOrder, baseURL string) SessionRequest {
	base := strings.TrimRight(baseURL, "/")
	lines := make([]LineItem, 0, len(items)+1)
	for _, it := range items {
		lines = append(lines, LineItem{
			Name:        it.Product.Title,
			Description: it.Product.Description,
			UnitAmount:  it.Product.Price,
			Quantity:    int64(it.Quantity),
		})
	}
	if order.Commission > 0 {
		lines = append(lines, LineItem{
			Name:        platformFeeName,
			Description: platformFeeDescription,
			UnitAmount:  order.Commission,
			Quantity:    1,
		})
	}

	return SessionRequest{
		LineItems:     lines,
		SuccessURL:    base + "/payment-success?session_id=" + SessionIDPlaceholder,
		CancelURL:     base + "/cart",
		CustomerEmail: buyer.Email,
		Metadata: map[string]string{
			"user_id":    buyer.ID.String(),
			"subtotal":   strconv.FormatInt(int64(order.Subtotal), 10),
			"commission": strconv.FormatInt(int64(order.Commission), 10),
		},
	}
}
