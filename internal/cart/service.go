package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/db/models"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// productLoader is the slice of the catalog the cart needs: current
// product rows for stock and price checks. Inactive products are not
// visible through it.
type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart engine. All mutations are owner-scoped; a
// line in someone else's cart looks exactly like a missing line.
type Service interface {
	Resolve(ctx context.Context, owner Owner) (*models.Cart, error)
	Add(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) (*SummaryDTO, error)
	Remove(ctx context.Context, owner Owner, itemID uuid.UUID) (*SummaryDTO, error)
	UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*SummaryDTO, error)
	UpdateMany(ctx context.Context, owner Owner, updates []QuantityUpdate) (*SummaryDTO, error)
	Clear(ctx context.Context, owner Owner) (*SummaryDTO, error)
	Summary(ctx context.Context, owner Owner) (*SummaryDTO, error)
}

type service struct {
	repo     *Repository
	products productLoader
	tx       txRunner
}

// NewService builds the cart service with the required dependencies.
func NewService(repo *Repository, products productLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, products: products, tx: tx}, nil
}

// Resolve returns the owner's cart, creating the row on first use.
func (s *service) Resolve(ctx context.Context, owner Owner) (*models.Cart, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.Create(ctx, owner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) Add(ctx context.Context, owner Owner, productID uuid.UUID, quantity int) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.InStock() {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock")
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindItemByProduct(ctx, cart.ID, product.ID)
		if err == nil {
			return repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity)
		}
		if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
		}
		_, err = repo.CreateItem(ctx, &models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert cart line")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart.ID)
}

func (s *service) Remove(ctx context.Context, owner Owner, itemID uuid.UUID) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}

	return s.summarize(ctx, cart.ID)
}

func (s *service) UpdateQuantity(ctx context.Context, owner Owner, itemID uuid.UUID, quantity int) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}

	return s.summarize(ctx, cart.ID)
}

// UpdateMany applies a batch quantity submission. Non-positive quantities
// delete the line; unknown item ids are skipped rather than failing the
// whole batch.
func (s *service) UpdateMany(ctx context.Context, owner Owner, updates []QuantityUpdate) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, update := range updates {
			item, err := repo.FindItem(ctx, cart.ID, update.ItemID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
			}
			if update.Quantity < 1 {
				if err := repo.DeleteItem(ctx, item.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
				}
				continue
			}
			if err := repo.UpdateItemQuantity(ctx, item.ID, update.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, cart.ID)
}

func (s *service) Clear(ctx context.Context, owner Owner) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteAllItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}

	return s.summarize(ctx, cart.ID)
}

func (s *service) Summary(ctx context.Context, owner Owner) (*SummaryDTO, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.Resolve(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, cart.ID)
}

func (s *service) summarize(ctx context.Context, cartID uuid.UUID) (*SummaryDTO, error) {
	items, err := s.repo.ListItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}

	summary := &SummaryDTO{
		CartID:     cartID,
		Items:      make([]ItemDTO, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	for _, item := range items {
		dto := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			dto.ProductName = item.Product.Name
			dto.ProductSlug = item.Product.Slug
			dto.UnitPrice = item.Product.Price
			dto.StockStatus = item.Product.StockStatus
			dto.InStock = item.Product.InStock()
			dto.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		summary.TotalItems += item.Quantity
		summary.TotalPrice = summary.TotalPrice.Add(dto.LineTotal)
		summary.Items = append(summary.Items, dto)
	}
	return summary, nil
}
