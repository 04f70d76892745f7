package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

// GET /products
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit < 1 || limit > 100 {
			limit = 10
		}

		query := db.Model(&models.Product{}).
			Where("status = ? AND is_published = ?", models.StatusActive, true)

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if minPrice := c.Query("min_price"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		if maxPrice := c.Query("max_price"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
		}
		if c.Query("featured") == "true" {
			query = query.Where("is_featured = ?", true)
		}

		switch c.DefaultQuery("sort", "newest") {
		case "price_asc":
			query = query.Order("price ASC")
		case "price_desc":
			query = query.Order("price DESC")
		case "rating":
			query = query.Order("rating_average DESC, rating_count DESC")
		case "trending":
			query = query.Order("views DESC, created_at DESC")
		default:
			query = query.Order("created_at DESC")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		var products []models.Product
		if err := query.Preload("Images").Preload("Seller").
			Offset((page - 1) * limit).Limit(limit).
			Find(&products).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		utils.Success(c, http.StatusOK, "Success", gin.H{
			"products": products,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	}
}

// GET /products/mine
func ListMyProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Images").Where("seller_id = ?", middleware.UserID(c))
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"products": products})
	}
}

// GET /products/:slug
//
// Accepts the slug or a numeric id, same idiom as the order lookup.
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("slug")

		product, err := models.ProductByKey(db.Preload("Images").Preload("Seller"), key)
		if err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		db.Model(product).Update("views", gorm.Expr("views + 1"))

		var reviews []models.Review
		if err := db.Preload("Reviewer").
			Where("product_id = ? AND status = ?", product.ID, models.ReviewStatusApproved).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		utils.Success(c, http.StatusOK, "Success", gin.H{"product": product, "reviews": reviews})
	}
}
