package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, client *ai.Client) {
	// Public auth routes plus the protected profile endpoints
	SetupAuthRoutes(r, db)

	// Catalog browsing and seller listing management
	SetupProductRoutes(r, db, client)

	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db)

	// Checkout, order history and the live order feed
	SetupOrderRoutes(r, db)

	// Reviews and helpfulness votes
	SetupReviewRoutes(r, db, client)

	// Admin console (admin role only)
	SetupAdminRoutes(r, db, client)

	// Chat assistant, open to guests
	SetupChatRoutes(r, db, client)
}
