package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds the 1:1 extension of a User. Exactly one row exists per
// user; it is created in the same transaction as the user and re-created if
// found missing on any profile save.
type UserProfile struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Phone       string     `gorm:"column:phone;not null;default:''"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`

	// Default shipping address, free text.
	AddressLine1 string `gorm:"column:address_line_1;not null;default:''"`
	AddressLine2 string `gorm:"column:address_line_2;not null;default:''"`
	City         string `gorm:"column:city;not null;default:''"`
	State        string `gorm:"column:state;not null;default:''"`
	PostalCode   string `gorm:"column:postal_code;not null;default:''"`
	Country      string `gorm:"column:country;not null;default:'USA'"`

	EmailNotifications     bool `gorm:"column:email_notifications;not null;default:true"`
	SMSNotifications       bool `gorm:"column:sms_notifications;not null;default:false"`
	NewsletterSubscription bool `gorm:"column:newsletter_subscription;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
