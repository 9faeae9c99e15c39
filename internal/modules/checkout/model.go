package checkout

import "github.com/georgemunganga/novashop/internal/money"

// LineItem is one priced line sent to the payment provider.
type LineItem struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	UnitAmount  money.Cents `json:"unit_amount"`
	Quantity    int64       `json:"quantity"`
}

// SessionRequest asks the provider for a hosted checkout page.
type SessionRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// Session is a hosted checkout page created by the provider.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Verification is the provider's view of a checkout session after redirect.
type Verification struct {
	SessionID string
	Paid      bool
	Metadata  map[string]string
}

// SessionIDPlaceholder is substituted by the provider in the success URL.
const SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

const (
	platformFeeName        = "Platform Fee"
	platformFeeDescription = "1% commission"
)
