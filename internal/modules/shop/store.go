package shop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/georgemunganga/novashop/internal/modules/pricing"
	"github.com/georgemunganga/novashop/internal/modules/role"
	"github.com/georgemunganga/novashop/internal/modules/user"
	"github.com/georgemunganga/novashop/internal/money"
	logx "github.com/georgemunganga/novashop/pkg/logger"
)

// Store holds one shop session: the mirrored product list and the cart.
type Store struct {
	catalog Catalog
	roles   RoleChecker

	mu       sync.Mutex
	products []*catalog.Product
	cart     []CartItem
	inflight int
	issued   uint64 // last fetch sequence handed out
	applied  uint64 // sequence of the list currently held
}

func NewStore(c Catalog, roles RoleChecker) *Store {
	return &Store{catalog: c, roles: roles, products: []*catalog.Product{}}
}

// FetchProducts replaces the product list with the catalog's current contents.
// On failure the previous list is kept. A response older than the list already
// applied is dropped.
func (s *Store) FetchProducts(ctx context.Context) ([]*catalog.Product, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.inflight++
	s.mu.Unlock()

	products, err := s.catalog.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--

	if err != nil {
		var appErr *errx.AppError
		if !errors.As(err, &appErr) {
			err = errx.Store("fetch products", err)
		}
		logx.Error().Err(err).Uint64("seq", seq).Msg("product fetch failed, keeping previous list")
		return nil, err
	}
	if seq < s.applied {
		logx.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("stale product list dropped")
		return s.products, nil
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	s.applied = seq
	s.products = products
	return products, nil
}

// AddProduct creates a product owned by u. It does not refresh the list.
func (s *Store) AddProduct(ctx context.Context, u *user.User, req catalog.CreateProductRequest) (*catalog.Product, error) {
	if u == nil {
		return nil, errx.Unauthorized("you must be signed in to add products")
	}
	ok, err := s.roles.Check(ctx, u.ID, role.Seller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errx.Forbidden("only sellers can add products")
	}
	return s.catalog.CreateProduct(ctx, catalog.Owner{ID: u.ID, DisplayName: u.DisplayName}, req)
}

// MaxQuantity bounds a single cart line. With prices capped at money.MaxAmount
// this keeps every subtotal far inside int64.
const MaxQuantity = 999

func (s *Store) AddToCart(p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(p)
}

// AddToCartByID adds a product from the current list.
func (s *Store) AddToCartByID(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productID {
			return s.addLocked(p)
		}
	}
	return errx.New(errx.ErrNotFound, catalog.ErrProductNotFound, http.StatusNotFound, "product not found")
}

func (s *Store) addLocked(p *catalog.Product) error {
	if p.Price < 0 || p.Price > money.MaxAmount {
		return errx.Invalid("product price is out of range")
	}
	for i := range s.cart {
		if s.cart[i].Product.ID == p.ID {
			if s.cart[i].Quantity >= MaxQuantity {
				return errx.Invalid(fmt.Sprintf("at most %d of one product per order", MaxQuantity))
			}
			s.cart[i].Quantity++
			return nil
		}
	}
	s.cart = append(s.cart, CartItem{Product: p, Quantity: 1})
	return nil
}

// RemoveFromCart drops the whole line for productID, if any.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].Product.ID == productID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Cart returns a snapshot of the cart lines.
func (s *Store) Cart() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Store) Total() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Subtotal(s.cart)
}

func (s *Store) Price() pricing.PricedOrder {
	return pricing.Price(s.Cart())
}

// Products returns the current list. Callers must not modify it.
func (s *Store) Products() []*catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products
}

// Loading reports whether any fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}
