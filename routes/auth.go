package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/auth"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authControllers.Register(db))
		auth.POST("/login", authControllers.Login(db))

		protected := auth.Group("", middleware.ValidateToken)
		{
			protected.GET("/me", authControllers.Me(db))
			protected.PUT("/profile", authControllers.UpdateProfile(db))
			protected.PUT("/password", authControllers.ChangePassword(db))
			protected.POST("/seller/apply", authControllers.ApplySeller(db))
		}
	}
}
