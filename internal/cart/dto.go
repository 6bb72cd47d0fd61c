package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmarket/storefront-backend/pkg/enums"
)

// ItemDTO is one cart line joined with its current product data.
type ItemDTO struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	ProductSlug string            `json:"product_slug"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	LineTotal   decimal.Decimal   `json:"line_total"`
	StockStatus enums.StockStatus `json:"stock_status"`
	InStock     bool              `json:"in_stock"`
}

// SummaryDTO is the full cart projection. Totals always reflect the
// products' current prices, not prices at add time.
type SummaryDTO struct {
	CartID     uuid.UUID       `json:"cart_id"`
	Items      []ItemDTO       `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// QuantityUpdate is one entry of a batch quantity submission. A
// non-positive quantity removes the line.
type QuantityUpdate struct {
	ItemID   uuid.UUID
	Quantity int
}
