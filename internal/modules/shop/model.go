package shop

import (
	"context"

	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/georgemunganga/novashop/internal/modules/role"
	"github.com/georgemunganga/novashop/internal/money"
	"github.com/google/uuid"
)

// CartItem is one cart line. Product is shared with the catalog list, not copied.
type CartItem struct {
	Product  *catalog.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

func (i CartItem) UnitPrice() money.Cents { return i.Product.Price }
func (i CartItem) Units() int             { return i.Quantity }

// Catalog is the remote product source a store mirrors.
type Catalog interface {
	ListProducts(ctx context.Context) ([]*catalog.Product, error)
	CreateProduct(ctx context.Context, owner catalog.Owner, req catalog.CreateProductRequest) (*catalog.Product, error)
}

// RoleChecker answers whether a user holds a role.
type RoleChecker interface {
	Check(ctx context.Context, userID uuid.UUID, r role.Role) (bool, error)
}
