package checkout

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type stripeGateway struct {
	sc *client.API
}

// NewStripeGateway creates a Stripe Checkout adapter using the secret key.
func NewStripeGateway(secretKey string) Gateway {
	return &stripeGateway{sc: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := buildSessionParams(req)
	params.Context = ctx

	if req.CustomerEmail != "" {
		customerID, err := g.findCustomer(ctx, req.CustomerEmail)
		if err != nil {
			return nil, stripeError(err)
		}
		if customerID != "" {
			params.Customer = stripe.String(customerID)
		} else {
			params.CustomerEmail = stripe.String(req.CustomerEmail)
		}
	}

	s, err := g.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError(err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (g *stripeGateway) VerifySession(ctx context.Context, sessionID string) (*Verification, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sc.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, stripeError(err)
	}
	return &Verification{
		SessionID: s.ID,
		Paid:      s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:  s.Metadata,
	}, nil
}

// findCustomer returns the id of an existing customer with this email, or "".
func (g *stripeGateway) findCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	it := g.sc.Customers.List(params)
	for it.Next() {
		return it.Customer().ID, nil
	}
	return "", it.Err()
}

func buildSessionParams(req SessionRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for _, li := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Description != "" {
			product.Description = stripe.String(li.Description)
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyUSD)),
				ProductData: product,
				UnitAmount:  stripe.Int64(int64(li.UnitAmount)),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

func stripeError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &ProviderError{Message: se.Msg, Err: err}
	}
	return &ProviderError{Message: "payment provider request failed", Err: err}
}
