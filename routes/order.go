package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/order"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	{
		// websocket feed for the admin dashboard
		orders.GET("/ws", orderControllers.OrderFeedHandler)

		protected := orders.Group("", middleware.ValidateToken)
		{
			protected.POST("", orderControllers.PlaceOrderHandler(db))
			protected.GET("/me", orderControllers.MyOrdersHandler(db))
			protected.POST("/digital/unlock", orderControllers.UnlockDigitalHandler(db))

			// Status changes come from sellers and admins
			protected.PUT("/:orderID/status",
				middleware.RequireRoles(models.RoleSeller, models.RoleAdmin),
				orderControllers.UpdateStatusHandler(db))
		}
	}
}
