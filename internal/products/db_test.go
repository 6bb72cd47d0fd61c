package products

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
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
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  stock_status TEXT NOT NULL DEFAULT 'in_stock',
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	reviews := `
CREATE TABLE IF NOT EXISTS product_reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(reviews).Error)
	return db
}

func newCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{
		ID:   uuid.New(),
		Name: name,
		Slug: slug,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func newProduct(t *testing.T, db *gorm.DB, category *models.Category, name string, price string, created time.Time, opts ...func(*models.Product)) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  category.ID,
		Name:        name,
		Slug:        uuid.NewString(),
		Price:       decimal.RequireFromString(price),
		Stock:       10,
		StockStatus: enums.StockStatusInStock,
		IsActive:    true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func newReviewer(t *testing.T, db *gorm.DB, first, last string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FirstName:    first,
		LastName:     last,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newReview(t *testing.T, db *gorm.DB, product *models.Product, user *models.User, rating int, created time.Time) {
	t.Helper()

	review := &models.ProductReview{
		ID:        uuid.New(),
		ProductID: product.ID,
		UserID:    user.ID,
		Rating:    rating,
		Comment:   "fine",
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(review).Error)
}
