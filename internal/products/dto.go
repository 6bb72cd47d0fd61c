package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmarket/storefront-backend/pkg/enums"
	"github.com/velmarket/storefront-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	CategorySlug string            `json:"category,omitempty"`
	Query        string            `json:"search,omitempty"`
	Sort         enums.ProductSort `json:"sort,omitempty"`
}

// ListInput captures the inputs needed to paginate and filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// Summary is the browse-grid projection of a product.
type Summary struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Price        decimal.Decimal   `json:"price"`
	CategoryName string            `json:"category_name"`
	CategorySlug string            `json:"category_slug"`
	StockStatus  enums.StockStatus `json:"stock_status"`
	InStock      bool              `json:"in_stock"`
	IsFeatured   bool              `json:"is_featured"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ListResult bundles one catalog page with its pagination metadata.
type ListResult struct {
	Products []Summary       `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// ReviewDTO is a single review on the product detail page.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Reviewer  string    `json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is the full product page projection. AverageRating is nil when
// the product has no reviews; zero would misread as a one-star floor.
type Detail struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         decimal.Decimal   `json:"price"`
	Stock         int               `json:"stock"`
	StockStatus   enums.StockStatus `json:"stock_status"`
	InStock       bool              `json:"in_stock"`
	IsFeatured    bool              `json:"is_featured"`
	CategoryName  string            `json:"category_name"`
	CategorySlug  string            `json:"category_slug"`
	AverageRating *float64          `json:"average_rating"`
	ReviewCount   int               `json:"review_count"`
	Reviews       []ReviewDTO       `json:"reviews"`
	Related       []Summary         `json:"related_products"`
	CreatedAt     time.Time         `json:"created_at"`
}

// CategoryDTO is the storefront projection of a category.
type CategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
}
