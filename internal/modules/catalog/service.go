package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/money"
	"github.com/google/uuid"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, owner Owner, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
}

// CreateProductRequest holds the seller form. Price is entered in dollars ("49.99").
type CreateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
}

type service struct {
	repo         Repository
	defaultImage string
}

func NewService(repo Repository, defaultImage string) Service {
	return &service{repo: repo, defaultImage: defaultImage}
}

func (s *service) CreateProduct(ctx context.Context, owner Owner, req CreateProductRequest) (*Product, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errx.Invalid("title is required")
	}
	price, err := money.ParseDollars(req.Price)
	if err != nil || price <= 0 {
		return nil, errx.Invalid("price must be a positive amount")
	}
	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = s.defaultImage
	}

	ownerID := owner.ID
	p := &Product{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Image:       image,
		Seller:      owner.DisplayName,
		OwnerID:     &ownerID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, errx.Store("create product", err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrProductNotFound) {
		return nil, errx.NotFound(err.Error())
	}
	if err != nil {
		return nil, errx.Store("get product", err)
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, errx.Store("list products", err)
	}
	return products, nil
}
