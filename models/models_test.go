package models

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Product{}, &ProductImage{}))
	return db
}

func TestMakeSlug(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	slug := MakeSlug("MacBook Pro 13\" (2020)!", at)
	assert.True(t, strings.HasPrefix(slug, "macbook-pro-13-2020-"))
	assert.NotContains(t, slug, " ")
	assert.NotContains(t, slug, "(")

	// Same title, different instants, distinct slugs
	other := MakeSlug("MacBook Pro 13\" (2020)!", at.Add(time.Second))
	assert.NotEqual(t, slug, other)
}

func TestProductByKeyResolvesSlugAndID(t *testing.T) {
	db := testDB(t)
	product := Product{
		Title:       "Mechanical Keyboard",
		Description: "Tenkeyless board with brown switches",
		Price:       60,
		Category:    CategoryElectronics,
		ProductType: TypePhysical,
		SellerID:    1,
		Status:      StatusActive,
		Slug:        MakeSlug("Mechanical Keyboard", time.Now()),
	}
	require.NoError(t, db.Create(&product).Error)

	bySlug, err := ProductByKey(db, product.Slug)
	require.NoError(t, err)
	assert.Equal(t, product.ID, bySlug.ID)

	byID, err := ProductByKey(db, fmt.Sprint(product.ID))
	require.NoError(t, err)
	assert.Equal(t, product.ID, byID.ID)

	_, err = ProductByKey(db, "no-such-listing-xyz123")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		"pending", "confirmed", "processing", "shipped",
		"out-for-delivery", "delivered", "completed", "cancelled", "refunded",
	} {
		assert.True(t, ValidOrderStatus(s), s)
	}

	assert.False(t, ValidOrderStatus("archived"))
	assert.False(t, ValidOrderStatus(""))
	assert.False(t, ValidOrderStatus("Confirmed"))
}
