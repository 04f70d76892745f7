package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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
		&models.Order{}, &models.OrderItem{}, &models.OrderTimelineEvent{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Test Buyer", Email: uuid.NewString() + "@campus.edu", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, productType models.ProductType, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Title:       "Item " + uuid.NewString()[:8],
		Description: "A listing used by the checkout tests",
		Price:       price,
		Category:    models.CategoryElectronics,
		ProductType: productType,
		Stock:       stock,
		SellerID:    1,
		Status:      models.StatusActive,
		IsPublished: true,
		Slug:        models.MakeSlug("item", time.Now()) + uuid.NewString()[:4],
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedCart(t *testing.T, db *gorm.DB, userID uint, lines ...models.CartItem) models.Cart {
	t.Helper()
	cart, err := models.GetOrCreateCart(db, userID)
	require.NoError(t, err)
	for i := range lines {
		lines[i].CartID = cart.ID
		lines[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&lines[i]).Error)
	}
	require.NoError(t, models.RecalculateCartTotals(db, cart.ID))
	return *cart
}

func TestPlaceOrderPricing(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	physical := seedProduct(t, db, models.TypePhysical, 20, 5)
	digital := seedProduct(t, db, models.TypeDigital, 10, 0)

	seedCart(t, db, user.ID,
		models.CartItem{ProductID: physical.ID, Quantity: 1, Price: 20},
		models.CartItem{ProductID: digital.ID, Quantity: 1, Price: 10},
	)

	order, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, 30.0, order.Pricing.Subtotal)
	assert.Equal(t, 5.0, order.Pricing.Shipping)
	assert.Equal(t, 2.10, order.Pricing.Tax)
	assert.Equal(t, 37.10, order.Pricing.Total)
	assert.Equal(t, models.OrderTypeMixed, order.OrderType)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.Equal(t, models.PaymentStatusCompleted, order.PaymentStatus)
	require.Len(t, order.Timeline, 1)
	assert.Equal(t, "Order confirmed", order.Timeline[0].Title)
	assert.Equal(t, "Payment received", order.Timeline[0].Description)

	// Cart is emptied, not deleted
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", user.ID).First(&cart).Error)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
	assert.Zero(t, cart.ItemCount)
}

func TestPlaceOrderDigitalOnlySkipsShipping(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	digital := seedProduct(t, db, models.TypeDigital, 15, 0)

	seedCart(t, db, user.ID, models.CartItem{ProductID: digital.ID, Quantity: 2, Price: 15})

	order, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, 30.0, order.Pricing.Subtotal)
	assert.Equal(t, 0.0, order.Pricing.Shipping)
	assert.Equal(t, models.OrderTypeDigital, order.OrderType)
}

func TestPlaceOrderUsesCartTimePrice(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, models.TypePhysical, 50, 5)

	// Carted at the old price, then the seller raised it
	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 40})
	require.NoError(t, db.Model(&product).Update("price", 50).Error)

	order, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, 40.0, order.Pricing.Subtotal)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 40.0, order.Items[0].Price)
	assert.Equal(t, 50.0, order.Items[0].ProductPrice)
}

func TestPlaceOrderStockClampedAtZero(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, models.TypePhysical, 10, 1)

	seedCart(t, db, user.ID, models.CartItem{ProductID: product.ID, Quantity: 3, Price: 10})

	_, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestPlaceOrderVanishedProductKeepsSnapshot(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	seedCart(t, db, user.ID, models.CartItem{ProductID: 9999, Quantity: 1, Price: 25})

	order, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "(removed listing)", order.Items[0].ProductTitle)
	assert.Equal(t, 25.0, order.Pricing.Subtotal)
	// Unknown type means no shipping is charged
	assert.Equal(t, 0.0, order.Pricing.Shipping)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	seedCart(t, db, user.ID)

	_, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderNoCart(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)

	_, err := PlaceOrder(db, user.ID, PlaceOrderRequest{PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	number := generateOrderNumber(now)

	assert.True(t, strings.HasPrefix(number, "ORD-2609-"))
	assert.Len(t, number, len("ORD-2609-")+6)
	suffix := strings.TrimPrefix(number, "ORD-2609-")
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}

func TestDeriveOrderType(t *testing.T) {
	digital := models.OrderItem{ProductType: models.TypeDigital}
	physical := models.OrderItem{ProductType: models.TypePhysical}

	assert.Equal(t, models.OrderTypeDigital, deriveOrderType([]models.OrderItem{digital, digital}))
	assert.Equal(t, models.OrderTypePhysical, deriveOrderType([]models.OrderItem{physical}))
	assert.Equal(t, models.OrderTypeMixed, deriveOrderType([]models.OrderItem{digital, physical}))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.10, round2(30*0.07))
	assert.Equal(t, 0.13, round2(0.125))
}

// unlockRouter stamps the request context with the given user the way the
// auth middleware would.
func unlockRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/orders/digital/unlock", func(c *gin.Context) {
		c.Set("user_id", userID)
	}, UnlockDigitalHandler(db))
	return r
}

func postUnlock(t *testing.T, r *gin.Engine, req UnlockDigitalRequest) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq := httptest.NewRequest(http.MethodPost, "/orders/digital/unlock", bytes.NewReader(data))
	httpReq.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func placeSingleItemOrder(t *testing.T, db *gorm.DB, userID uint, productType models.ProductType) *models.Order {
	t.Helper()
	product := seedProduct(t, db, productType, 12, 3)
	seedCart(t, db, userID, models.CartItem{ProductID: product.ID, Quantity: 1, Price: 12})
	order, err := PlaceOrder(db, userID, PlaceOrderRequest{PaymentMethod: "card"})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	return order
}

func TestUnlockDigitalIsIdempotent(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	order := placeSingleItemOrder(t, db, user.ID, models.TypeDigital)
	r := unlockRouter(db, user.ID)

	req := UnlockDigitalRequest{OrderID: order.ID, ItemID: order.Items[0].ID}

	w := postUnlock(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Digital item unlocked")

	// Second unlock re-confirms the same state
	w = postUnlock(t, r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Digital item unlocked")

	var item models.OrderItem
	require.NoError(t, db.First(&item, order.Items[0].ID).Error)
	assert.True(t, item.IsUnlocked)
}

func TestUnlockDigitalRejectsPhysicalItem(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db)
	order := placeSingleItemOrder(t, db, user.ID, models.TypePhysical)
	r := unlockRouter(db, user.ID)

	w := postUnlock(t, r, UnlockDigitalRequest{OrderID: order.ID, ItemID: order.Items[0].ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a digital product")

	var item models.OrderItem
	require.NoError(t, db.First(&item, order.Items[0].ID).Error)
	assert.False(t, item.IsUnlocked)
}

func TestUnlockDigitalRejectsOtherCustomer(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db)
	stranger := seedUser(t, db)
	order := placeSingleItemOrder(t, db, owner.ID, models.TypeDigital)
	r := unlockRouter(db, stranger.ID)

	w := postUnlock(t, r, UnlockDigitalRequest{OrderID: order.ID, ItemID: order.Items[0].ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var item models.OrderItem
	require.NoError(t, db.First(&item, order.Items[0].ID).Error)
	assert.False(t, item.IsUnlocked)
}
