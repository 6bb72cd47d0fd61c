package address

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/db/models"
	pkgerrors "github.com/velmarket/storefront-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupAddressTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  address_line_1 TEXT NOT NULL,
  address_line_2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL DEFAULT 'USA',
  phone TEXT NOT NULL DEFAULT '',
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newAddressTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupAddressTestDB(t)
	svc, err := NewService(NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func sampleInput(title string) Input {
	return Input{
		Title:        title,
		FirstName:    "Jamie",
		LastName:     "Doe",
		AddressLine1: "123 Main St",
		City:         "Norman",
		State:        "OK",
		PostalCode:   "73072",
	}
}

func countDefaults(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&count).Error)
	return count
}

func TestCreate_firstAddressBecomesDefault(t *testing.T) {
	svc, db := newAddressTestService(t)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, sampleInput("Home"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "USA", first.Country)

	second, err := svc.Create(context.Background(), userID, sampleInput("Work"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	assert.EqualValues(t, 1, countDefaults(t, db, userID))
}

// racingTxRunner commits a competing default address for the user just
// before the wrapped transaction body runs, mimicking a concurrent
// first-address create that lands first.
type racingTxRunner struct {
	db     *gorm.DB
	userID uuid.UUID
}

func (r racingTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	competitor := &models.Address{
		ID:           uuid.New(),
		UserID:       r.userID,
		Title:        "Home",
		FirstName:    "Jamie",
		LastName:     "Doe",
		AddressLine1: "55 Oak Ave",
		City:         "Norman",
		State:        "OK",
		PostalCode:   "73072",
		Country:      "USA",
		IsDefault:    true,
	}
	if err := r.db.WithContext(ctx).Create(competitor).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

func TestCreate_countsInsideTransaction(t *testing.T) {
	db := setupAddressTestDB(t)
	userID := uuid.New()
	svc, err := NewService(NewRepository(db), racingTxRunner{db: db, userID: userID})
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), userID, sampleInput("Work"))
	require.NoError(t, err)

	// The competitor's address was already saved when the count ran, so
	// the new one must not claim the default slot.
	assert.False(t, created.IsDefault)
	assert.EqualValues(t, 1, countDefaults(t, db, userID))

	var keeper models.Address
	require.NoError(t, db.First(&keeper, "user_id = ? AND is_default = ?", userID, true).Error)
	assert.Equal(t, "55 Oak Ave", keeper.AddressLine1)
}

func TestSetDefault_exactlyOneDefaultSurvives(t *testing.T) {
	svc, db := newAddressTestService(t)
	userID := uuid.New()

	a, err := svc.Create(context.Background(), userID, sampleInput("Home"))
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), userID, sampleInput("Work"))
	require.NoError(t, err)

	promoted, err := svc.SetDefault(context.Background(), userID, b.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsDefault)
	assert.EqualValues(t, 1, countDefaults(t, db, userID))

	var reloadedA models.Address
	require.NoError(t, db.First(&reloadedA, "id = ?", a.ID).Error)
	assert.False(t, reloadedA.IsDefault)

	// Promote back and forth; the invariant holds after each call.
	_, err = svc.SetDefault(context.Background(), userID, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countDefaults(t, db, userID))
}

func TestSetDefault_crossUserIsNotFound(t *testing.T) {
	svc, db := newAddressTestService(t)
	owner := uuid.New()

	row, err := svc.Create(context.Background(), owner, sampleInput("Home"))
	require.NoError(t, err)

	_, err = svc.SetDefault(context.Background(), uuid.New(), row.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// The owner's default is untouched.
	assert.EqualValues(t, 1, countDefaults(t, db, owner))
}

func TestDelete_scopedToOwner(t *testing.T) {
	svc, db := newAddressTestService(t)
	owner := uuid.New()

	row, err := svc.Create(context.Background(), owner, sampleInput("Home"))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), row.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	require.NoError(t, svc.Delete(context.Background(), owner, row.ID))

	var count int64
	require.NoError(t, db.Model(&models.Address{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdate_defaultPromotionInsideTx(t *testing.T) {
	svc, db := newAddressTestService(t)
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, sampleInput("Home"))
	require.NoError(t, err)
	work, err := svc.Create(context.Background(), userID, sampleInput("Work"))
	require.NoError(t, err)

	input := sampleInput("Work Updated")
	input.IsDefault = true
	updated, err := svc.Update(context.Background(), userID, work.ID, input)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, "Work Updated", updated.Title)
	assert.EqualValues(t, 1, countDefaults(t, db, userID))
}
