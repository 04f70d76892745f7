package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

// RequireRoles gates a route to the given roles. Must run after
// ValidateToken.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		current, _ := role.(string)
		for _, r := range roles {
			if current == string(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "status": http.StatusForbidden, "message": "Not authorized"})
	}
}

// RequireApprovedSeller checks the live seller state rather than the token
// claims, since approval can flip between token issue and use.
func RequireApprovedSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", UserID(c)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "status": http.StatusUnauthorized, "message": "User not found"})
			return
		}
		if user.Role == models.RoleAdmin {
			c.Next()
			return
		}
		if user.Role != models.RoleSeller || user.SellerStatus != models.SellerStatusApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "status": http.StatusForbidden, "message": "Approved seller account required"})
			return
		}
		c.Next()
	}
}
