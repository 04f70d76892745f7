package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ProductCategory string
type ProductType string
type ProductCondition string
type ProductStatus string

const (
	CategoryElectronics    ProductCategory = "electronics"
	CategoryStudyMaterials ProductCategory = "study-materials"
	CategoryEventPasses    ProductCategory = "event-passes"
	CategorySubscriptions  ProductCategory = "subscriptions"

	TypePhysical ProductType = "physical"
	TypeDigital  ProductType = "digital"

	ConditionNew     ProductCondition = "new"
	ConditionLikeNew ProductCondition = "like-new"
	ConditionGood    ProductCondition = "good"
	ConditionFair    ProductCondition = "fair"
	ConditionPoor    ProductCondition = "poor"

	StatusDraft    ProductStatus = "draft"
	StatusPending  ProductStatus = "pending"
	StatusActive   ProductStatus = "active"
	StatusInactive ProductStatus = "inactive"
	StatusSold     ProductStatus = "sold"
	StatusFlagged  ProductStatus = "flagged"
	StatusRemoved  ProductStatus = "removed"
)

type Product struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Title            string  `gorm:"not null" json:"title"`
	Description      string  `gorm:"not null" json:"description"`
	ShortDescription string  `json:"short_description"`
	Price            float64 `gorm:"not null" json:"price"`
	OriginalPrice    float64 `json:"original_price"`
	Currency         string  `gorm:"default:'USD'" json:"currency"`

	Category    ProductCategory  `gorm:"type:VARCHAR(20);index:idx_category_status" json:"category"`
	Subcategory string           `json:"subcategory"`
	ProductType ProductType      `gorm:"type:VARCHAR(10);not null" json:"product_type"`
	Condition   ProductCondition `gorm:"type:VARCHAR(10);default:'new'" json:"condition"`

	// Digital product details (productType == digital)
	DigitalFileURL  string `json:"digital_file_url,omitempty"`
	DigitalFileType string `json:"digital_file_type,omitempty"`
	DigitalFileSize int64  `json:"digital_file_size,omitempty"`
	DownloadLimit   int    `gorm:"default:-1" json:"download_limit"`  // -1 means unlimited
	AccessDuration  int    `gorm:"default:-1" json:"access_duration"` // days, -1 means lifetime

	// Physical product details (productType == physical)
	WeightKg      float64 `json:"weight_kg,omitempty"`
	ShippingClass string  `gorm:"default:'standard'" json:"shipping_class"`

	Stock             int `gorm:"default:1" json:"stock"`
	LowStockThreshold int `gorm:"default:5" json:"low_stock_threshold"`

	Images []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`

	SellerID uint `gorm:"not null;index" json:"seller_id"`
	Seller   User `gorm:"foreignKey:SellerID" json:"seller,omitempty"`

	Tags string `json:"tags"`

	Ratings    Ratings    `gorm:"embedded;embeddedPrefix:rating_" json:"ratings"`
	AIAnalysis AIAnalysis `gorm:"embedded;embeddedPrefix:ai_" json:"ai_analysis"`

	Status      ProductStatus `gorm:"type:VARCHAR(10);default:'pending';index:idx_category_status" json:"status"`
	IsPublished bool          `json:"is_published"`
	IsFeatured  bool          `json:"is_featured"`

	Views int `json:"views"`

	Slug      string    `gorm:"uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

// Ratings is the derived review aggregate cached on the product. It is
// recomputed from the live review set on every review write, never
// hand-edited.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Star1   int     `json:"star_1"`
	Star2   int     `json:"star_2"`
	Star3   int     `json:"star_3"`
	Star4   int     `json:"star_4"`
	Star5   int     `json:"star_5"`
}

// AIAnalysis holds the trust-scoring verdict attached at creation time.
type AIAnalysis struct {
	IsFlagged      bool   `json:"is_flagged"`
	FlagReason     string `json:"flag_reason,omitempty"`
	SuspicionScore int    `json:"suspicion_score"`

	PriceIsAbnormal bool     `json:"price_is_abnormal"`
	MarketAverage   *float64 `json:"market_average,omitempty"`
	PriceDeviation  int      `json:"price_deviation"` // percent from category average

	IsDuplicate     bool   `json:"is_duplicate"`
	SimilarProducts string `json:"similar_products,omitempty"` // comma-joined product IDs
	QualityScore    int    `json:"quality_score"`

	Recommendation string     `gorm:"default:'approve'" json:"recommendation"`
	LastAnalyzedAt *time.Time `json:"last_analyzed_at,omitempty"`
}

// ProductByKey resolves a product by slug, or by numeric id when the key
// parses as one. Slugs are never purely numeric, so the id clause is only
// added for numeric keys; the integer id column cannot be compared against
// an arbitrary string parameter.
func ProductByKey(db *gorm.DB, key string) (*Product, error) {
	cond := db.Where("slug = ?", key)
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		cond = cond.Or("id = ?", id)
	}
	var product Product
	err := cond.First(&product).Error
	return &product, err
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// MakeSlug derives the immutable product slug from the title plus a
// base36 timestamp so two listings with the same title never collide.
func MakeSlug(title string, at time.Time) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s + "-" + strconv.FormatInt(at.UnixMilli(), 36)
}

// RecalculateProductRating rebuilds the rating aggregate of a product from
// all of its reviews. Full recompute, O(review count) per write.
func RecalculateProductRating(db *gorm.DB, productID uint) error {
	var reviews []Review
	if err := db.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return err
	}

	var r Ratings
	sum := 0
	for _, rev := range reviews {
		sum += rev.Rating
		switch rev.Rating {
		case 1:
			r.Star1++
		case 2:
			r.Star2++
		case 3:
			r.Star3++
		case 4:
			r.Star4++
		case 5:
			r.Star5++
		}
	}
	r.Count = len(reviews)
	if r.Count > 0 {
		r.Average = math.Round(float64(sum)/float64(r.Count)*10) / 10
	}

	return db.Model(&Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"rating_average": r.Average,
		"rating_count":   r.Count,
		"rating_star1":   r.Star1,
		"rating_star2":   r.Star2,
		"rating_star3":   r.Star3,
		"rating_star4":   r.Star4,
		"rating_star5":   r.Star5,
	}).Error
}
