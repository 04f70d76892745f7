package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/shaikhimran1006/Student-Market-Place/controllers/review"
	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
)

func SetupReviewRoutes(r *gin.Engine, db *gorm.DB, client *ai.Client) {
	r.GET("/products/:slug/reviews", reviewControllers.ListProductReviews(db, client))
	r.POST("/products/:slug/reviews", middleware.ValidateToken, reviewControllers.CreateReview(db, client))

	reviews := r.Group("/reviews", middleware.ValidateToken)
	{
		reviews.PUT("/:id", reviewControllers.UpdateReview(db, client))
		reviews.DELETE("/:id", reviewControllers.DeleteReview(db))
		reviews.POST("/:id/vote", reviewControllers.VoteHandler(db))
	}
}
