package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for product data storage.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	// List returns every product, newest first.
	List(ctx context.Context) ([]*Product, error)
}
