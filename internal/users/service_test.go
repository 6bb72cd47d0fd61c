package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/internal/orders"
	"github.com/velmarket/storefront-backend/pkg/config"
	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
	"github.com/velmarket/storefront-backend/pkg/security"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	profiles := `
CREATE TABLE IF NOT EXISTS user_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  date_of_birth DATETIME,
  address_line_1 TEXT NOT NULL DEFAULT '',
  address_line_2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT 'USA',
  email_notifications INTEGER NOT NULL DEFAULT 1,
  sms_notifications INTEGER NOT NULL DEFAULT 0,
  newsletter_subscription INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total NUMERIC NOT NULL,
  shipping_name TEXT NOT NULL DEFAULT '',
  shipping_line_1 TEXT NOT NULL DEFAULT '',
  shipping_line_2 TEXT NOT NULL DEFAULT '',
  shipping_city TEXT NOT NULL DEFAULT '',
  shipping_state TEXT NOT NULL DEFAULT '',
  shipping_postal_code TEXT NOT NULL DEFAULT '',
  shipping_country TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(profiles).Error)
	require.NoError(t, db.Exec(ordersTable).Error)
	return db
}

func passwordTestConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newUsersTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupUsersTestDB(t)
	svc, err := NewService(NewRepository(db), orders.NewRepository(db), testTxRunner{db: db}, passwordTestConfig())
	require.NoError(t, err)
	return svc, db
}

func TestRegister_createsUserAndProfileTogether(t *testing.T) {
	svc, db := newUsersTestService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "Jamie@Example.com",
		Password:  "correct horse battery",
		FirstName: "Jamie",
		LastName:  "Doe",
		Phone:     "555-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", user.Email)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "555-0001", user.Profile.Phone)

	var profileCount int64
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).
		Count(&profileCount).Error)
	assert.EqualValues(t, 1, profileCount)

	ok, err := security.VerifyPassword("correct horse battery", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_duplicateEmailConflicts(t *testing.T) {
	svc, _ := newUsersTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jamie@example.com",
		Password:  "correct horse battery",
		FirstName: "Jamie",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:     "JAMIE@example.com",
		Password:  "another password",
		FirstName: "Other",
		LastName:  "Person",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateProfile_healsMissingProfileRow(t *testing.T) {
	svc, db := newUsersTestService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jamie@example.com",
		Password:  "correct horse battery",
		FirstName: "Jamie",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	// Simulate a profile row lost to manual intervention.
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error)

	city := "Tulsa"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileInput{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Tulsa", updated.City)

	var profileCount int64
	require.NoError(t, db.Model(&models.UserProfile{}).
		Where("user_id = ?", user.ID).
		Count(&profileCount).Error)
	assert.EqualValues(t, 1, profileCount)
}

func TestUpdateProfile_partialUpdateLeavesOtherFields(t *testing.T) {
	svc, _ := newUsersTestService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jamie@example.com",
		Password:  "correct horse battery",
		FirstName: "Jamie",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	first := "Jay"
	newsletter := true
	_, err = svc.UpdateProfile(context.Background(), user.ID, ProfileInput{
		FirstName:              &first,
		NewsletterSubscription: &newsletter,
	})
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jay", profile.FirstName)
	assert.Equal(t, "Doe", profile.LastName)
	assert.True(t, profile.NewsletterSubscription)
	assert.True(t, profile.EmailNotifications)
}

func TestDashboard_countsAndRecentOrders(t *testing.T) {
	svc, db := newUsersTestService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jamie@example.com",
		Password:  "correct horse battery",
		FirstName: "Jamie",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	for i, status := range []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPending,
		enums.OrderStatusDelivered,
	} {
		order := &models.Order{
			ID:          uuid.New(),
			OrderNumber: uuid.NewString(),
			UserID:      user.ID,
			Status:      status,
			Total:       decimal.RequireFromString("10.00"),
			CreatedAt:   now.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(order).Error)
	}

	dashboard, err := svc.Dashboard(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, dashboard.TotalOrders)
	assert.EqualValues(t, 2, dashboard.PendingOrders)
	require.Len(t, dashboard.RecentOrders, 3)
	assert.Equal(t, enums.OrderStatusDelivered, dashboard.RecentOrders[0].Status)
}
