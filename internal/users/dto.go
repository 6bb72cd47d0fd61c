package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/velmarket/storefront-backend/pkg/enums"
)

// RegisterInput carries the signup payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"max=30"`
}

// ProfileInput carries the editable account and profile fields. Nil
// pointers mean "leave unchanged".
type ProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`

	DateOfBirth  *time.Time `json:"date_of_birth"`
	AddressLine1 *string    `json:"address_line_1" validate:"omitempty,max=255"`
	AddressLine2 *string    `json:"address_line_2" validate:"omitempty,max=255"`
	City         *string    `json:"city" validate:"omitempty,max=100"`
	State        *string    `json:"state" validate:"omitempty,max=100"`
	PostalCode   *string    `json:"postal_code" validate:"omitempty,max=20"`
	Country      *string    `json:"country" validate:"omitempty,max=100"`

	EmailNotifications     *bool `json:"email_notifications"`
	SMSNotifications       *bool `json:"sms_notifications"`
	NewsletterSubscription *bool `json:"newsletter_subscription"`
}

// ProfileDTO is the account page projection of a user and their profile.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`

	DateOfBirth  *time.Time `json:"date_of_birth"`
	AddressLine1 string     `json:"address_line_1"`
	AddressLine2 string     `json:"address_line_2"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`

	EmailNotifications     bool `json:"email_notifications"`
	SMSNotifications       bool `json:"sms_notifications"`
	NewsletterSubscription bool `json:"newsletter_subscription"`

	CreatedAt time.Time `json:"created_at"`
}

// RecentOrderDTO is the dashboard's condensed order row.
type RecentOrderDTO struct {
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	Total       decimal.Decimal   `json:"total"`
	CreatedAt   time.Time         `json:"created_at"`
}

// DashboardDTO is the account landing page projection.
type DashboardDTO struct {
	TotalOrders   int64            `json:"total_orders"`
	PendingOrders int64            `json:"pending_orders"`
	RecentOrders  []RecentOrderDTO `json:"recent_orders"`
}
