package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmarket/storefront-backend/pkg/enums"
)

// Order is a previously placed order. Placement happens outside this
// service; the API only projects orders back to their owner.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string            `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`

	// Shipping snapshot captured at placement time.
	ShippingName       string `gorm:"column:shipping_name;not null;default:''"`
	ShippingLine1      string `gorm:"column:shipping_line_1;not null;default:''"`
	ShippingLine2      string `gorm:"column:shipping_line_2;not null;default:''"`
	ShippingCity       string `gorm:"column:shipping_city;not null;default:''"`
	ShippingState      string `gorm:"column:shipping_state;not null;default:''"`
	ShippingPostalCode string `gorm:"column:shipping_postal_code;not null;default:''"`
	ShippingCountry    string `gorm:"column:shipping_country;not null;default:''"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
