package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
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
		&models.Order{}, &models.OrderItem{}, &models.OrderTimelineEvent{},
	))
	return db
}

func seedListing(t *testing.T, db *gorm.DB, description string, price float64) models.Product {
	t.Helper()
	product := models.Product{
		Title:       "Listing " + uuid.NewString()[:8],
		Description: description,
		Price:       price,
		Category:    models.CategoryElectronics,
		ProductType: models.TypePhysical,
		SellerID:    1,
		Status:      models.StatusActive,
		Slug:        "listing-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// mockClient has no key, so completions come from the deterministic
// keyless path (suspicion score 15, approve).
func mockClient() *Client {
	return NewClient("", "", "")
}

func TestMarketDataEmptyCategory(t *testing.T) {
	db := testDB(t)
	d := NewDetector(db, mockClient())

	market, err := d.MarketData(models.CategoryStudyMaterials)
	require.NoError(t, err)
	assert.Nil(t, market.AveragePrice)
	assert.Nil(t, market.MinPrice)
	assert.Nil(t, market.MaxPrice)
	assert.Zero(t, market.SampleSize)
}

func TestMarketDataAggregates(t *testing.T) {
	db := testDB(t)
	seedListing(t, db, "first active listing with a fair price", 10)
	seedListing(t, db, "second active listing with a fair price", 30)
	// Zero-priced rows are excluded from the aggregate
	seedListing(t, db, "free listing excluded from aggregates", 0)

	d := NewDetector(db, mockClient())
	market, err := d.MarketData(models.CategoryElectronics)
	require.NoError(t, err)

	require.NotNil(t, market.AveragePrice)
	assert.Equal(t, 20.0, *market.AveragePrice)
	assert.Equal(t, 10.0, *market.MinPrice)
	assert.Equal(t, 30.0, *market.MaxPrice)
	assert.Equal(t, 2, market.SampleSize)
}

func TestCheckDuplicatesIdenticalDescription(t *testing.T) {
	db := testDB(t)
	existing := seedListing(t, db, "brand new mechanical keyboard cherry switches rgb lighting", 80)

	d := NewDetector(db, mockClient())
	check, err := d.CheckDuplicates("brand new mechanical keyboard cherry switches rgb lighting", models.CategoryElectronics, 0)
	require.NoError(t, err)

	assert.True(t, check.IsDuplicate)
	assert.Equal(t, 100, check.HighestSimilarity)
	require.Len(t, check.SimilarProductIDs, 1)
	assert.Equal(t, existing.ID, check.SimilarProductIDs[0])
}

func TestCheckDuplicatesUnrelatedDescription(t *testing.T) {
	db := testDB(t)
	seedListing(t, db, "brand new mechanical keyboard cherry switches rgb lighting", 80)

	d := NewDetector(db, mockClient())
	check, err := d.CheckDuplicates("organic chemistry lecture notes complete semester bundle", models.CategoryElectronics, 0)
	require.NoError(t, err)

	assert.False(t, check.IsDuplicate)
	assert.Empty(t, check.SimilarProductIDs)
}

func TestCheckDuplicatesExcludesSelf(t *testing.T) {
	db := testDB(t)
	self := seedListing(t, db, "used physics textbook ninth edition good condition", 25)

	d := NewDetector(db, mockClient())
	check, err := d.CheckDuplicates(self.Description, models.CategoryElectronics, self.ID)
	require.NoError(t, err)

	assert.False(t, check.IsDuplicate)
}

func TestVerifyCleanListing(t *testing.T) {
	db := testDB(t)
	seedListing(t, db, "gently used tablet with charger and case included", 100)
	product := seedListing(t, db, "wireless earbuds sealed box warranty included", 95)

	d := NewDetector(db, mockClient())
	result := d.Verify(context.Background(), &product)

	assert.False(t, result.Degraded)
	assert.False(t, result.Analysis.IsFlagged)
	assert.Equal(t, 15, result.Analysis.SuspicionScore)
	assert.Equal(t, "approve", result.Analysis.Recommendation)
	assert.NotNil(t, result.Analysis.LastAnalyzedAt)
}

func TestVerifyFlagsDuplicate(t *testing.T) {
	db := testDB(t)
	original := seedListing(t, db, "brand new mechanical keyboard cherry switches rgb lighting included", 80)
	copycat := seedListing(t, db, "brand new mechanical keyboard cherry switches rgb lighting included", 78)

	d := NewDetector(db, mockClient())
	result := d.Verify(context.Background(), &copycat)

	assert.True(t, result.Analysis.IsDuplicate)
	assert.True(t, result.Analysis.IsFlagged)
	assert.GreaterOrEqual(t, result.Analysis.SuspicionScore, 70)
	assert.Equal(t, "reject", result.Analysis.Recommendation)
	assert.Contains(t, result.Analysis.FlagReason, "Duplicate")
	assert.Contains(t, result.Analysis.SimilarProducts, fmt.Sprint(original.ID))
}

func TestVerifyFlagsAbnormalPrice(t *testing.T) {
	db := testDB(t)
	seedListing(t, db, "standard noise cancelling headphones in great shape", 100)
	seedListing(t, db, "another pair of headphones lightly used with cable", 100)
	bargain := seedListing(t, db, "suspiciously cheap flagship phone unlocked any carrier", 5)

	d := NewDetector(db, mockClient())
	result := d.Verify(context.Background(), &bargain)

	assert.True(t, result.Analysis.PriceIsAbnormal)
	assert.True(t, result.Analysis.IsFlagged)
	assert.GreaterOrEqual(t, result.Analysis.SuspicionScore, 60)
	assert.Contains(t, result.Analysis.FlagReason, "below market average")
	require.NotNil(t, result.Analysis.MarketAverage)
}

func TestVerifyDegradedProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	db := testDB(t)
	product := seedListing(t, db, "ordinary listing that fails analysis upstream", 50)

	d := NewDetector(db, NewClient("key", server.URL, "test-model"))
	result := d.Verify(context.Background(), &product)

	assert.True(t, result.Degraded)
	assert.False(t, result.Analysis.IsFlagged)
	assert.Equal(t, "approve", result.Analysis.Recommendation)
}

func TestRecommendationThresholds(t *testing.T) {
	assert.Equal(t, "approve", recommendation(0))
	assert.Equal(t, "approve", recommendation(39))
	assert.Equal(t, "review", recommendation(40))
	assert.Equal(t, "review", recommendation(69))
	assert.Equal(t, "reject", recommendation(70))
	assert.Equal(t, "reject", recommendation(100))
}

func TestSimilarityBounds(t *testing.T) {
	a := wordSet("red bicycle with basket")
	b := wordSet("red bicycle with basket")
	assert.Equal(t, 1.0, similarity(a, b))

	c := wordSet("completely different words here entirely")
	assert.Equal(t, 0.0, similarity(a, c))

	assert.Equal(t, 0.0, similarity(wordSet(""), wordSet("")))
}

func TestIsAbnormalPrice(t *testing.T) {
	avg := 100.0
	market := MarketData{AveragePrice: &avg}

	assert.False(t, isAbnormalPrice(100, market))
	// 69% below is still inside the band, 71% is outside on either side
	assert.False(t, isAbnormalPrice(31, market))
	assert.True(t, isAbnormalPrice(29, market))
	assert.True(t, isAbnormalPrice(171, market))
	// No market data means no judgement
	assert.False(t, isAbnormalPrice(50, MarketData{}))
}
