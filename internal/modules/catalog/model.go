package catalog

import (
	"time"

	"github.com/georgemunganga/novashop/internal/money"
	"github.com/google/uuid"
)

// Product is a catalog entry. Products are never mutated in place once listed;
// refreshing the catalog replaces the whole collection.
type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       money.Cents `json:"price"`
	Image       string      `json:"image"`
	Seller      string      `json:"seller"`
	OwnerID     *uuid.UUID  `json:"owner_id,omitempty"` // nil for seeded and legacy rows
	CreatedAt   time.Time   `json:"created_at"`
}

// Owner identifies the seller creating a product.
type Owner struct {
	ID          uuid.UUID
	DisplayName string
}
