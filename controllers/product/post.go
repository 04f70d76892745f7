package productControllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type CreateProductInput struct {
	Title          string  `json:"title" binding:"required,min=3,max=100"`
	Description    string  `json:"description" binding:"required,min=10,max=2000"`
	Price          float64 `json:"price" binding:"required,gte=0"`
	OriginalPrice  float64 `json:"original_price" binding:"omitempty,gte=0"`
	Category       string  `json:"category" binding:"required,oneof=electronics study-materials event-passes subscriptions"`
	Subcategory    string  `json:"subcategory"`
	ProductType    string  `json:"product_type" binding:"required,oneof=physical digital"`
	Condition      string  `json:"condition" binding:"omitempty,oneof=new like-new good fair poor"`
	Stock          int     `json:"stock" binding:"omitempty,gte=0"`
	Tags           string  `json:"tags"`
	WeightKg       float64 `json:"weight_kg"`
	ShippingClass  string  `json:"shipping_class" binding:"omitempty,oneof=standard express pickup"`
	DownloadLimit  int     `json:"download_limit"`
	AccessDuration int     `json:"access_duration"`
	Images         []struct {
		URL string `json:"url" binding:"required"`
		Alt string `json:"alt"`
	} `json:"images"`
	IsPublished bool `json:"is_published"`
}

// CreateProduct creates a listing for an approved seller and runs the
// trust-scoring pipeline on it before it is exposed to buyers. A degraded
// pipeline never blocks creation; the product just carries the neutral
// verdict.
func CreateProduct(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	detector := ai.NewDetector(db, client)
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		now := time.Now()
		product := models.Product{
			Title:            input.Title,
			Description:      input.Description,
			ShortDescription: shortDescription(input.Description),
			Price:            input.Price,
			OriginalPrice:    input.OriginalPrice,
			Category:         models.ProductCategory(input.Category),
			Subcategory:      input.Subcategory,
			ProductType:      models.ProductType(input.ProductType),
			Condition:        models.ProductCondition(input.Condition),
			Stock:            input.Stock,
			Tags:             input.Tags,
			WeightKg:         input.WeightKg,
			ShippingClass:    input.ShippingClass,
			DownloadLimit:    input.DownloadLimit,
			AccessDuration:   input.AccessDuration,
			SellerID:         middleware.UserID(c),
			Status:           models.StatusPending,
			IsPublished:      input.IsPublished,
			Slug:             models.MakeSlug(input.Title, now),
		}
		if product.Condition == "" {
			product.Condition = models.ConditionNew
		}
		if product.ShippingClass == "" {
			product.ShippingClass = "standard"
		}
		if product.Stock == 0 && product.ProductType == models.TypePhysical {
			product.Stock = 1
		}
		if product.DownloadLimit == 0 {
			product.DownloadLimit = -1
		}
		if product.AccessDuration == 0 {
			product.AccessDuration = -1
		}
		for i, img := range input.Images {
			product.Images = append(product.Images, models.ProductImage{
				URL:       img.URL,
				Alt:       img.Alt,
				IsPrimary: i == 0,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		result := detector.Verify(c.Request.Context(), &product)
		if result.Degraded {
			log.Printf("trust scoring degraded for product %d, storing neutral verdict", product.ID)
		}
		product.AIAnalysis = result.Analysis
		if result.Analysis.IsFlagged {
			product.Status = models.StatusFlagged
		}
		if err := db.Save(&product).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		utils.Success(c, http.StatusCreated, "Product created", gin.H{
			"product":          product,
			"scoring_degraded": result.Degraded,
		})
	}
}

func shortDescription(description string) string {
	if len(description) <= 200 {
		return description
	}
	return description[:197] + "..."
}
