package adminControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type ReviewSellerInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

type FlagProductInput struct {
	Reason string `json:"reason" binding:"required"`
}

// GET /admin/sellers/pending
func PendingSellers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("seller_status = ?", models.SellerStatusPending).
			Order("seller_applied_at ASC").
			Find(&users).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"applications": users})
	}
}

// PUT /admin/sellers/:id/review
//
// Approval promotes the user to the seller role. A rejection keeps the
// student role and records the reason so the user can reapply.
func ReviewSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ReviewSellerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}
		if user.SellerStatus != models.SellerStatusPending {
			utils.Fail(c, http.StatusBadRequest, "No pending seller application for this user")
			return
		}

		now := time.Now()
		adminID := middleware.UserID(c)
		updates := map[string]interface{}{
			"seller_reviewed_at": now,
			"seller_reviewed_by": adminID,
		}
		if input.Decision == "approve" {
			updates["seller_status"] = models.SellerStatusApproved
			updates["role"] = models.RoleSeller
			updates["seller_rejection_reason"] = ""
		} else {
			updates["seller_status"] = models.SellerStatusRejected
			updates["seller_rejection_reason"] = input.Reason
		}

		if err := db.Model(&user).Updates(updates).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		if err := db.First(&user, user.ID).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Application reviewed", gin.H{"user": user})
	}
}

// PUT /admin/products/:id/flag
func FlagProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input FlagProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		if err := db.Model(&product).Updates(map[string]interface{}{
			"status":         models.StatusFlagged,
			"ai_is_flagged":  true,
			"ai_flag_reason": input.Reason,
		}).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		if err := db.First(&product, product.ID).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Product flagged", gin.H{"product": product})
	}
}

// PUT /admin/products/:id/approve
//
// Clears a flag after manual review and activates the listing.
func ApproveProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		if err := db.Model(&product).Updates(map[string]interface{}{
			"status":            models.StatusActive,
			"ai_is_flagged":     false,
			"ai_flag_reason":    "",
			"ai_recommendation": "approve",
		}).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		if err := db.First(&product, product.ID).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Product approved", gin.H{"product": product})
	}
}

// POST /admin/products/:id/reanalyze
//
// Reruns the trust-scoring pipeline against the current market data.
func ReanalyzeProduct(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	detector := ai.NewDetector(db, client)
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		result := detector.Verify(c.Request.Context(), &product)
		product.AIAnalysis = result.Analysis
		if result.Analysis.IsFlagged {
			product.Status = models.StatusFlagged
		} else if product.Status == models.StatusFlagged {
			product.Status = models.StatusPending
		}

		if err := db.Save(&product).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Product reanalyzed", gin.H{
			"product":          product,
			"scoring_degraded": result.Degraded,
		})
	}
}

// GET /admin/products/flagged
func FlaggedProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Seller").Preload("Images").
			Where("status = ?", models.StatusFlagged).
			Order("ai_suspicion_score DESC").
			Find(&products).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"products": products})
	}
}

// PUT /admin/users/:id/ban
func BanUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Banned bool   `json:"banned"`
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}
		if user.Role == models.RoleAdmin {
			utils.Fail(c, http.StatusBadRequest, "Admins cannot be banned")
			return
		}

		reason := input.Reason
		if !input.Banned {
			reason = ""
		}
		if err := db.Model(&user).Updates(map[string]interface{}{
			"is_banned":  input.Banned,
			"ban_reason": reason,
		}).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "User updated", gin.H{"user": user})
	}
}

// GET /admin/analytics
func Analytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users, sellers, activeProducts, flaggedProducts, orders int64
		var revenue float64

		db.Model(&models.User{}).Count(&users)
		db.Model(&models.User{}).Where("role = ?", models.RoleSeller).Count(&sellers)
		db.Model(&models.Product{}).Where("status = ?", models.StatusActive).Count(&activeProducts)
		db.Model(&models.Product{}).Where("status = ?", models.StatusFlagged).Count(&flaggedProducts)
		db.Model(&models.Order{}).Count(&orders)
		db.Model(&models.Order{}).Select("COALESCE(SUM(pricing_total), 0)").Scan(&revenue)

		utils.Success(c, http.StatusOK, "Success", gin.H{
			"total_users":      users,
			"total_sellers":    sellers,
			"active_products":  activeProducts,
			"flagged_products": flaggedProducts,
			"total_orders":     orders,
			"total_revenue":    revenue,
		})
	}
}
