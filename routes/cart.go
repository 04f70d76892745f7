package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/cart"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart", middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("/items", cartControllers.AddToCart(db))
		cart.PUT("/items", cartControllers.UpdateItemQuantity(db))
		cart.DELETE("/items/:product_id", cartControllers.RemoveItem(db))
		cart.PUT("/save-for-later", cartControllers.SaveForLater(db))
		cart.PUT("/move-to-cart", cartControllers.MoveToCart(db))
	}
}
