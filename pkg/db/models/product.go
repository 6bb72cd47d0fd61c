package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmarket/storefront-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  uuid.UUID         `gorm:"column:category_id;type:uuid;not null;index"`
	Category    *Category         `gorm:"foreignKey:CategoryID"`
	Name        string            `gorm:"column:name;not null"`
	Slug        string            `gorm:"column:slug;not null;uniqueIndex"`
	Description string            `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null"`
	Stock       int               `gorm:"column:stock;not null;default:0"`
	StockStatus enums.StockStatus `gorm:"column:stock_status;not null;default:'in_stock'"`
	// No default tag: gorm skips zero-valued fields that carry one on
	// Create, which would silently flip an inactive row back to active.
	IsActive    bool              `gorm:"column:is_active;not null"`
	IsFeatured  bool              `gorm:"column:is_featured;not null;default:false"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// InStock derives availability from the stock count and the status flag.
func (p Product) InStock() bool {
	return p.StockStatus == enums.StockStatusInStock && p.Stock > 0
}
