package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/config"
	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/security"
)

const recentOrdersLimit = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ordersReader is the slice of order history the dashboard needs.
type ordersReader interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uuid.UUID, status enums.OrderStatus) (int64, error)
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)
}

// Service owns account lifecycle and the profile read/write paths.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error)
}

type service struct {
	repo   *Repository
	orders ordersReader
	tx     txRunner
	cfg    config.PasswordConfig
}

// NewService builds the users service with the required dependencies.
func NewService(repo *Repository, orders ordersReader, tx txRunner, cfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, orders: orders, tx: tx, cfg: cfg}, nil
}

// Register creates the user and their profile in one transaction. The
// profile is an explicit step of account creation, never an afterthought
// patched in later.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	hash, err := security.HashPassword(input.Password, s.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		IsActive:     true,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert user")
		}
		profile := &models.UserProfile{
			ID:                 uuid.New(),
			UserID:             user.ID,
			Country:            "USA",
			EmailNotifications: true,
		}
		if user.Phone != nil {
			profile.Phone = *user.Phone
		}
		if _, err := repo.CreateProfile(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert profile")
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.loadWithHealedProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileDTO(user), nil
}

// UpdateProfile writes user fields and profile fields together. A user
// whose profile row went missing gets a fresh one in the same
// transaction instead of an error.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.loadWithHealedProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.FirstName != nil {
			user.FirstName = strings.TrimSpace(*input.FirstName)
		}
		if input.LastName != nil {
			user.LastName = strings.TrimSpace(*input.LastName)
		}
		if input.Phone != nil {
			phone := strings.TrimSpace(*input.Phone)
			if phone == "" {
				user.Phone = nil
			} else {
				user.Phone = &phone
			}
			user.Profile.Phone = phone
		}
		if _, err := repo.Save(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
		}

		profile := user.Profile
		if input.DateOfBirth != nil {
			profile.DateOfBirth = input.DateOfBirth
		}
		if input.AddressLine1 != nil {
			profile.AddressLine1 = *input.AddressLine1
		}
		if input.AddressLine2 != nil {
			profile.AddressLine2 = *input.AddressLine2
		}
		if input.City != nil {
			profile.City = *input.City
		}
		if input.State != nil {
			profile.State = *input.State
		}
		if input.PostalCode != nil {
			profile.PostalCode = *input.PostalCode
		}
		if input.Country != nil {
			profile.Country = *input.Country
		}
		if input.EmailNotifications != nil {
			profile.EmailNotifications = *input.EmailNotifications
		}
		if input.SMSNotifications != nil {
			profile.SMSNotifications = *input.SMSNotifications
		}
		if input.NewsletterSubscription != nil {
			profile.NewsletterSubscription = *input.NewsletterSubscription
		}
		if _, err := repo.SaveProfile(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProfileDTO(user), nil
}

func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	pending, err := s.orders.CountByUserAndStatus(ctx, userID, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	recent, err := s.orders.ListRecentByUser(ctx, userID, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}

	dashboard := &DashboardDTO{
		TotalOrders:   total,
		PendingOrders: pending,
		RecentOrders:  make([]RecentOrderDTO, 0, len(recent)),
	}
	for _, order := range recent {
		dashboard.RecentOrders = append(dashboard.RecentOrders, RecentOrderDTO{
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			Total:       order.Total,
			CreatedAt:   order.CreatedAt,
		})
	}
	return dashboard, nil
}

func (s *service) loadWithHealedProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindWithProfile(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.Profile != nil {
		return user, nil
	}

	profile := &models.UserProfile{
		ID:                 uuid.New(),
		UserID:             user.ID,
		Country:            "USA",
		EmailNotifications: true,
	}
	if user.Phone != nil {
		profile.Phone = *user.Phone
	}
	if _, err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "heal profile")
	}
	user.Profile = profile
	return user, nil
}

func toProfileDTO(user *models.User) *ProfileDTO {
	dto := &ProfileDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
	if user.Phone != nil {
		dto.Phone = *user.Phone
	}
	if profile := user.Profile; profile != nil {
		dto.DateOfBirth = profile.DateOfBirth
		dto.AddressLine1 = profile.AddressLine1
		dto.AddressLine2 = profile.AddressLine2
		dto.City = profile.City
		dto.State = profile.State
		dto.PostalCode = profile.PostalCode
		dto.Country = profile.Country
		dto.EmailNotifications = profile.EmailNotifications
		dto.SMSNotifications = profile.SMSNotifications
		dto.NewsletterSubscription = profile.NewsletterSubscription
	}
	return dto
}
