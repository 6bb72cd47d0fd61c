package orders

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

	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

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
	orders := `
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
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, number string, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "General", Slug: uuid.NewString()}
	require.NoError(t, db.Create(category).Error)
	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  category.ID,
		Name:        "Mug",
		Slug:        uuid.NewString(),
		Price:       decimal.RequireFromString("12.00"),
		Stock:       5,
		StockStatus: enums.StockStatusInStock,
		IsActive:    true,
	}
	require.NoError(t, db.Create(product).Error)

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: number,
		UserID:      userID,
		Status:      status,
		Total:       decimal.RequireFromString("24.00"),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("12.00"),
		CreatedAt: created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestListByUser_newestFirstWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	userID := uuid.New()
	now := time.Now().UTC()
	seedOrder(t, db, userID, "ORD-1", enums.OrderStatusDelivered, now.Add(-time.Hour))
	seedOrder(t, db, userID, "ORD-2", enums.OrderStatusPending, now)
	seedOrder(t, db, uuid.New(), "ORD-3", enums.OrderStatusPending, now)

	list, err := svc.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-2", list[0].OrderNumber)
	assert.Equal(t, "ORD-1", list[1].OrderNumber)

	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Mug", list[0].Items[0].ProductName)
	assert.Equal(t, 2, list[0].TotalItems)
	assert.True(t, list[0].Items[0].LineTotal.Equal(decimal.RequireFromString("24.00")))
}

func TestGetByNumber_scopedToOwner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)

	owner := uuid.New()
	seedOrder(t, db, owner, "ORD-10", enums.OrderStatusShipped, time.Now().UTC())

	found, err := svc.GetByNumber(context.Background(), owner, "ORD-10")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.Status)

	_, err = svc.GetByNumber(context.Background(), uuid.New(), "ORD-10")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
