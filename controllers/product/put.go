package productControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type UpdateProductInput struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string  `json:"description" binding:"omitempty,min=10,max=2000"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Status      *string  `json:"status" binding:"omitempty,oneof=draft pending active inactive sold flagged removed"`
	Category    *string  `json:"category" binding:"omitempty,oneof=electronics study-materials event-passes subscriptions"`
	Condition   *string  `json:"condition" binding:"omitempty,oneof=new like-new good fair poor"`
	Tags        *string  `json:"tags"`
	IsPublished *bool    `json:"is_published"`
}

// loadOwnedProduct fetches the product and enforces seller/admin ownership.
func loadOwnedProduct(db *gorm.DB, c *gin.Context) (*models.Product, bool) {
	product, err := models.ProductByKey(db, c.Param("slug"))
	if err != nil {
		utils.DBError(c, err, "Product not found")
		return nil, false
	}

	role, _ := c.Get("role")
	if product.SellerID != middleware.UserID(c) && role != string(models.RoleAdmin) {
		utils.Fail(c, http.StatusForbidden, "Not authorized")
		return nil, false
	}
	return product, true
}

// PUT /products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadOwnedProduct(db, c)
		if !ok {
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		if input.Title != nil && *input.Title != product.Title {
			product.Title = *input.Title
			// Slug is immutable unless the title changes
			product.Slug = models.MakeSlug(product.Title, time.Now())
		}
		if input.Description != nil {
			product.Description = *input.Description
			product.ShortDescription = shortDescription(*input.Description)
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.Status != nil {
			product.Status = models.ProductStatus(*input.Status)
		}
		if input.Category != nil {
			product.Category = models.ProductCategory(*input.Category)
		}
		if input.Condition != nil {
			product.Condition = models.ProductCondition(*input.Condition)
		}
		if input.Tags != nil {
			product.Tags = *input.Tags
		}
		if input.IsPublished != nil {
			product.IsPublished = *input.IsPublished
		}

		if err := db.Save(product).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Product updated", gin.H{"product": product})
	}
}

// DELETE /products/:id
//
// Soft delete: a status flip to removed, never row deletion.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := loadOwnedProduct(db, c)
		if !ok {
			return
		}

		if err := db.Model(product).Update("status", models.StatusRemoved).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		product.Status = models.StatusRemoved
		utils.Success(c, http.StatusOK, "Product removed", gin.H{"product": product})
	}
}
