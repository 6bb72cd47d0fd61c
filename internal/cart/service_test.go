package cart

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

	"github.com/velmarket/storefront-backend/internal/products"
	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupCartTestDB(t *testing.T) *gorm.DB {
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
	productsTable := `
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
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE,
  session_key TEXT UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(productsTable).Error)
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func newCartTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(NewRepository(db), products.NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, opts ...func(*models.Product)) *models.Product {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: "General", Slug: uuid.NewString()}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		ID:          uuid.New(),
		CategoryID:  category.ID,
		Name:        name,
		Slug:        uuid.NewString(),
		Price:       decimal.RequireFromString(price),
		Stock:       25,
		StockStatus: enums.StockStatusInStock,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestResolve_idempotentPerOwner(t *testing.T) {
	svc, _ := newCartTestService(t)

	owner := OwnerForSession("sess-1")
	first, err := svc.Resolve(context.Background(), owner)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := svc.Resolve(context.Background(), OwnerForSession("sess-2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestResolve_rejectsEmptyOwner(t *testing.T) {
	svc, _ := newCartTestService(t)

	_, err := svc.Resolve(context.Background(), Owner{})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestAdd_accumulatesSingleLine(t *testing.T) {
	svc, db := newCartTestService(t)
	product := seedProduct(t, db, "Mug", "10.00")
	owner := OwnerForUser(uuid.New())

	_, err := svc.Add(context.Background(), owner, product.ID, 2)
	require.NoError(t, err)
	summary, err := svc.Add(context.Background(), owner, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 5, summary.Items[0].Quantity)
	assert.Equal(t, 5, summary.TotalItems)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAdd_missingInactiveAndOutOfStock(t *testing.T) {
	svc, db := newCartTestService(t)
	owner := OwnerForSession("sess-1")

	_, err := svc.Add(context.Background(), owner, uuid.New(), 1)
	requireCode(t, err, pkgerrors.CodeNotFound)

	inactive := seedProduct(t, db, "Hidden", "10.00", func(p *models.Product) {
		p.IsActive = false
	})
	_, err = svc.Add(context.Background(), owner, inactive.ID, 1)
	requireCode(t, err, pkgerrors.CodeNotFound)

	flagged := seedProduct(t, db, "Flagged", "10.00", func(p *models.Product) {
		p.StockStatus = enums.StockStatusOutOfStock
	})
	_, err = svc.Add(context.Background(), owner, flagged.ID, 1)
	requireCode(t, err, pkgerrors.CodeOutOfStock)

	drained := seedProduct(t, db, "Drained", "10.00", func(p *models.Product) {
		p.Stock = 0
	})
	_, err = svc.Add(context.Background(), owner, drained.ID, 1)
	requireCode(t, err, pkgerrors.CodeOutOfStock)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAdd_rejectsZeroQuantity(t *testing.T) {
	svc, db := newCartTestService(t)
	product := seedProduct(t, db, "Mug", "10.00")

	_, err := svc.Add(context.Background(), OwnerForSession("sess-1"), product.ID, 0)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestSummary_totalsUseCurrentPrices(t *testing.T) {
	svc, db := newCartTestService(t)
	mug := seedProduct(t, db, "Mug", "10.00")
	spoon := seedProduct(t, db, "Spoon", "5.00")
	owner := OwnerForUser(uuid.New())

	_, err := svc.Add(context.Background(), owner, mug.ID, 2)
	require.NoError(t, err)
	summary, err := svc.Add(context.Background(), owner, spoon.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalItems)
	assert.True(t, summary.TotalPrice.Equal(decimal.RequireFromString("25.00")),
		"expected 25.00, got %s", summary.TotalPrice)
}

func TestUpdateQuantity_zeroIsRejectedAndStateUnchanged(t *testing.T) {
	svc, db := newCartTestService(t)
	product := seedProduct(t, db, "Mug", "10.00")
	owner := OwnerForSession("sess-1")

	summary, err := svc.Add(context.Background(), owner, product.ID, 2)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	_, err = svc.UpdateQuantity(context.Background(), owner, itemID, 0)
	requireCode(t, err, pkgerrors.CodeValidation)

	unchanged, err := svc.Summary(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, unchanged.Items, 1)
	assert.Equal(t, 2, unchanged.Items[0].Quantity)
}

func TestMutations_scopedToOwnCart(t *testing.T) {
	svc, db := newCartTestService(t)
	product := seedProduct(t, db, "Mug", "10.00")

	victim := OwnerForSession("victim")
	summary, err := svc.Add(context.Background(), victim, product.ID, 2)
	require.NoError(t, err)
	itemID := summary.Items[0].ID

	attacker := OwnerForSession("attacker")
	_, err = svc.Remove(context.Background(), attacker, itemID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.UpdateQuantity(context.Background(), attacker, itemID, 9)
	requireCode(t, err, pkgerrors.CodeNotFound)

	intact, err := svc.Summary(context.Background(), victim)
	require.NoError(t, err)
	require.Len(t, intact.Items, 1)
	assert.Equal(t, 2, intact.Items[0].Quantity)
}

func TestClear_emptiesCartAndKeepsRow(t *testing.T) {
	svc, db := newCartTestService(t)
	product := seedProduct(t, db, "Mug", "10.00")
	owner := OwnerForSession("sess-1")

	_, err := svc.Add(context.Background(), owner, product.ID, 2)
	require.NoError(t, err)

	cleared, err := svc.Clear(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Equal(t, 0, cleared.TotalItems)
	assert.True(t, cleared.TotalPrice.IsZero())

	// Clearing an already empty cart is a no-op, not an error.
	again, err := svc.Clear(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, again.Items)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateMany_batchSemantics(t *testing.T) {
	svc, db := newCartTestService(t)
	mug := seedProduct(t, db, "Mug", "10.00")
	spoon := seedProduct(t, db, "Spoon", "5.00")
	owner := OwnerForSession("sess-1")

	_, err := svc.Add(context.Background(), owner, mug.ID, 2)
	require.NoError(t, err)
	summary, err := svc.Add(context.Background(), owner, spoon.ID, 1)
	require.NoError(t, err)

	var mugItem, spoonItem uuid.UUID
	for _, item := range summary.Items {
		switch item.ProductID {
		case mug.ID:
			mugItem = item.ID
		case spoon.ID:
			spoonItem = item.ID
		}
	}

	updated, err := svc.UpdateMany(context.Background(), owner, []QuantityUpdate{
		{ItemID: mugItem, Quantity: 7},
		{ItemID: spoonItem, Quantity: 0},
		{ItemID: uuid.New(), Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, mug.ID, updated.Items[0].ProductID)
	assert.Equal(t, 7, updated.Items[0].Quantity)
}
