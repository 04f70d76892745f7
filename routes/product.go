package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/product"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB, client *ai.Client) {
	products := r.Group("/products")
	{
		// Public catalog
		products.GET("", productControllers.ListProducts(db))

		// Seller-only listing management. Registered before the slug
		// route so /mine resolves as the static path.
		seller := products.Group("", middleware.ValidateToken, middleware.RequireApprovedSeller(db))
		{
			seller.GET("/mine", productControllers.ListMyProducts(db))
			seller.POST("", productControllers.CreateProduct(db, client))
			seller.POST("/images", productControllers.UploadImages())
			seller.POST("/digital-file", productControllers.UploadDigitalFile())
			seller.PUT("/:slug", productControllers.UpdateProduct(db))
			seller.DELETE("/:slug", productControllers.DeleteProduct(db))
		}

		products.GET("/:slug", productControllers.GetProduct(db))
	}
}
