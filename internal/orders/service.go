package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/db/models"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

// Service projects the read-only order history back to its owner.
type Service interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*OrderDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the order history service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return dtos, nil
}

func (s *service) GetByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	row, err := s.repo.FindByNumber(ctx, userID, orderNumber)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	dto := toDTO(*row)
	return &dto, nil
}

func toDTO(row models.Order) OrderDTO {
	dto := OrderDTO{
		ID:          row.ID,
		OrderNumber: row.OrderNumber,
		Status:      row.Status,
		Total:       row.Total,
		Items:       make([]ItemDTO, 0, len(row.Items)),
		CreatedAt:   row.CreatedAt,
	}
	for _, item := range row.Items {
		line := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.ProductSlug = item.Product.Slug
		}
		dto.TotalItems += item.Quantity
		dto.Items = append(dto.Items, line)
	}
	return dto
}
