package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/admin"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, client *ai.Client) {
	admin := r.Group("/admin", middleware.ValidateToken, middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/analytics", adminControllers.Analytics(db))

		admin.GET("/sellers/pending", adminControllers.PendingSellers(db))
		admin.PUT("/sellers/:id/review", adminControllers.ReviewSeller(db))

		admin.GET("/products/flagged", adminControllers.FlaggedProducts(db))
		admin.GET("/products/export", adminControllers.ExportProductsToExcel(db))
		admin.PUT("/products/:id/flag", adminControllers.FlagProduct(db))
		admin.PUT("/products/:id/approve", adminControllers.ApproveProduct(db))
		admin.POST("/products/:id/reanalyze", adminControllers.ReanalyzeProduct(db, client))

		admin.PUT("/users/:id/ban", adminControllers.BanUser(db))
	}
}
