package cartControllers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.ProductImage{},
		&models.Cart{}, &models.CartItem{}, &models.SavedItem{},
	))
	return db
}

func newCart(t *testing.T, db *gorm.DB) *models.Cart {
	t.Helper()
	cart, err := models.GetOrCreateCart(db, 1)
	require.NoError(t, err)
	return cart
}

func cartTotals(t *testing.T, db *gorm.DB, cartID uint) (float64, int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.First(&cart, cartID).Error)
	return cart.Subtotal, cart.ItemCount
}

func TestGetOrCreateCartIsLazyAndStable(t *testing.T) {
	db := testDB(t)

	first, err := models.GetOrCreateCart(db, 42)
	require.NoError(t, err)
	second, err := models.GetOrCreateCart(db, 42)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestAddItemCreatesLine(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)

	require.NoError(t, AddItem(db, cart.ID, 10, 2, 19.99))

	subtotal, count := cartTotals(t, db, cart.ID)
	assert.Equal(t, 39.98, subtotal)
	assert.Equal(t, 2, count)
}

func TestAddItemMergesAndRefreshesPrice(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)

	require.NoError(t, AddItem(db, cart.ID, 10, 1, 20))
	// Same product again at a new catalog price
	require.NoError(t, AddItem(db, cart.ID, 10, 2, 25))

	var items []models.CartItem
	require.NoError(t, db.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 25.0, items[0].Price)

	subtotal, count := cartTotals(t, db, cart.ID)
	assert.Equal(t, 75.0, subtotal)
	assert.Equal(t, 3, count)
}

func TestUpdateQuantitySetsNewTotal(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)
	require.NoError(t, AddItem(db, cart.ID, 10, 5, 10))

	require.NoError(t, UpdateQuantity(db, cart.ID, 10, 2))

	subtotal, count := cartTotals(t, db, cart.ID)
	assert.Equal(t, 20.0, subtotal)
	assert.Equal(t, 2, count)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)
	require.NoError(t, AddItem(db, cart.ID, 10, 1, 10))
	require.NoError(t, AddItem(db, cart.ID, 11, 1, 5))

	require.NoError(t, UpdateQuantity(db, cart.ID, 10, 0))

	var items []models.CartItem
	require.NoError(t, db.Where("cart_id = ?", cart.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, uint(11), items[0].ProductID)

	subtotal, count := cartTotals(t, db, cart.ID)
	assert.Equal(t, 5.0, subtotal)
	assert.Equal(t, 1, count)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)

	err := UpdateQuantity(db, cart.ID, 999, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecalculateCartTotalsEmptyCart(t *testing.T) {
	db := testDB(t)
	cart := newCart(t, db)
	require.NoError(t, AddItem(db, cart.ID, 10, 1, 10))
	require.NoError(t, UpdateQuantity(db, cart.ID, 10, 0))

	subtotal, count := cartTotals(t, db, cart.ID)
	assert.Zero(t, subtotal)
	assert.Zero(t, count)
}
