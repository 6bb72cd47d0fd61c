package products

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/config"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/pagination"
)

// Service exposes the storefront catalog read paths.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Detail(ctx context.Context, slug string) (*Detail, error)
	Categories(ctx context.Context) ([]CategoryDTO, error)
	Featured(ctx context.Context) ([]Summary, error)
}

type service struct {
	repo *Repository
	cfg  config.CatalogConfig
}

// NewService builds the catalog service with the required dependencies.
func NewService(repo *Repository, cfg config.CatalogConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if input.Pagination.PageSize <= 0 {
		input.Pagination.PageSize = s.cfg.PageSize
	}
	input.Pagination.PageSize = pagination.NormalizeSize(input.Pagination.PageSize)

	if slug := input.Filters.CategorySlug; slug != "" {
		if _, err := s.repo.FindCategoryBySlug(ctx, slug); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	result, err := s.repo.ListSummaries(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) Detail(ctx context.Context, slug string) (*Detail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	reviews, err := s.repo.ListReviews(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviews")
	}

	avg, err := s.repo.AverageRating(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate rating")
	}

	related, err := s.repo.ListRelated(ctx, product.CategoryID, product.ID, s.cfg.RelatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related products")
	}

	detail := &Detail{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Description:   product.Description,
		Price:         product.Price,
		Stock:         product.Stock,
		StockStatus:   product.StockStatus,
		InStock:       product.InStock(),
		IsFeatured:    product.IsFeatured,
		AverageRating: avg,
		ReviewCount:   len(reviews),
		Reviews:       reviews,
		Related:       related,
		CreatedAt:     product.CreatedAt,
	}
	if product.Category != nil {
		detail.CategoryName = product.Category.Name
		detail.CategorySlug = product.Category.Slug
	}
	return detail, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) Featured(ctx context.Context) ([]Summary, error) {
	featured, err := s.repo.ListFeatured(ctx, s.cfg.FeaturedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
	}
	return featured, nil
}
