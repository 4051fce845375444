package services

import (
	"context"
	"math"
	"time"

	"crm/internal/domain"
	"crm/internal/repos"
	"crm/internal/validate"

	"github.com/google/uuid"
)

// ProductInput is the body of a product write. On update, a nil Stock or
// Price keeps the current value; on create both are required.
type ProductInput struct {
	Name  string   `json:"name"`
	Stock *int     `json:"stock"`
	Price *float64 `json:"price"`
}

func (in ProductInput) apply(p *domain.Product, create bool) error {
	var ok bool
	if p.Name, ok = validate.Name(in.Name); !ok {
		return domain.Invalid("product name is required (max 60 characters)")
	}
	if create && (in.Stock == nil || in.Price == nil) {
		return domain.Invalid("stock and price are required")
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return domain.Invalid("stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	if v := in.Price; v != nil {
		if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			return domain.Invalid("price must be zero or more")
		}
		p.Price = *v
	}
	return nil
}

type CatalogService struct {
	Prods   *repos.ProductRepo
	Timeout time.Duration
}

func NewCatalogService(prods *repos.ProductRepo, timeout time.Duration) *CatalogService {
	return &CatalogService{Prods: prods, Timeout: timeout}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	out, err := s.Prods.List(ctx)
	return out, fault("product.list", err, nil)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return nil, fault("product.get", err, map[string]any{"product_id": id})
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{ID: uuid.NewString()}
	if err := in.apply(p, true); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Prods.Create(ctx, p); err != nil {
		return nil, fault("product.create", err, nil)
	}
	return p, nil
}

// UpdateProduct replaces the product's fields, stock level included.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	p, err := s.Prods.Get(ctx, id)
	if err != nil {
		return nil, fault("product.update", err, map[string]any{"product_id": id})
	}
	if err := in.apply(p, false); err != nil {
		return nil, err
	}
	if err := s.Prods.Update(ctx, p); err != nil {
		return nil, fault("product.update", err, map[string]any{"product_id": id})
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	return fault("product.delete", s.Prods.Delete(ctx, id), map[string]any{"product_id": id})
}
