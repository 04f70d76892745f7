package reviewControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/services/ai"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=100"`
	Content string `json:"content" binding:"required,min=10,max=1000"`
	Pros    string `json:"pros"`
	Cons    string `json:"cons"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Title   *string `json:"title" binding:"omitempty,max=100"`
	Content *string `json:"content" binding:"omitempty,min=10,max=1000"`
	Pros    *string `json:"pros"`
	Cons    *string `json:"cons"`
}

type VoteInput struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

func resolveProduct(db *gorm.DB, key string) (*models.Product, error) {
	return models.ProductByKey(db, key)
}

// POST /products/:slug/reviews
//
// One review per (product, reviewer). The verified-purchase flag is true
// iff an order of this customer contains the product. Every create
// recomputes the product's rating aggregate.
func CreateReview(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		product, err := resolveProduct(db, c.Param("slug"))
		if err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		userID := middleware.UserID(c)

		var existing models.Review
		if err := db.Where("product_id = ? AND reviewer_id = ?", product.ID, userID).First(&existing).Error; err == nil {
			utils.Fail(c, http.StatusBadRequest, "You have already reviewed this product")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.Internal(c, err)
			return
		}

		// Verified purchase: any order of this customer containing the product
		var orderID *uint
		var orderItem models.OrderItem
		err = db.Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.customer_id = ? AND order_items.product_id = ?", userID, product.ID).
			First(&orderItem).Error
		if err == nil {
			orderID = &orderItem.OrderID
		} else if err != gorm.ErrRecordNotFound {
			utils.Internal(c, err)
			return
		}

		analysis := ai.AnalyzeReviewSentiment(c.Request.Context(), client, input.Content)

		review := models.Review{
			ProductID:          product.ID,
			ReviewerID:         userID,
			OrderID:            orderID,
			Rating:             input.Rating,
			Title:              input.Title,
			Content:            input.Content,
			Pros:               input.Pros,
			Cons:               input.Cons,
			AIAnalysis:         analysis,
			Status:             models.ReviewStatusApproved,
			IsVerifiedPurchase: orderID != nil,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			return models.RecalculateProductRating(tx, product.ID)
		})
		if err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		utils.Success(c, http.StatusCreated, "Review added", gin.H{"review": review})
	}
}

// PUT /reviews/:id
func UpdateReview(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Review not found")
			return
		}
		if review.ReviewerID != middleware.UserID(c) {
			utils.Fail(c, http.StatusForbidden, "Not authorized")
			return
		}

		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		if input.Rating != nil {
			review.Rating = *input.Rating
		}
		if input.Title != nil {
			review.Title = *input.Title
		}
		if input.Content != nil {
			review.Content = *input.Content
			review.AIAnalysis = ai.AnalyzeReviewSentiment(c.Request.Context(), client, *input.Content)
		}
		if input.Pros != nil {
			review.Pros = *input.Pros
		}
		if input.Cons != nil {
			review.Cons = *input.Cons
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
			return models.RecalculateProductRating(tx, review.ProductID)
		})
		if err != nil {
			utils.Internal(c, err)
			return
		}

		utils.Success(c, http.StatusOK, "Review updated", gin.H{"review": review})
	}
}

// DELETE /reviews/:id
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Review not found")
			return
		}

		role, _ := c.Get("role")
		if review.ReviewerID != middleware.UserID(c) && role != string(models.RoleAdmin) {
			utils.Fail(c, http.StatusForbidden, "Not authorized")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&review).Error; err != nil {
				return err
			}
			return models.RecalculateProductRating(tx, review.ProductID)
		})
		if err != nil {
			utils.Internal(c, err)
			return
		}

		utils.Success(c, http.StatusOK, "Review deleted", gin.H{})
	}
}

// GET /products/:slug/reviews
func ListProductReviews(db *gorm.DB, client *ai.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := resolveProduct(db, c.Param("slug"))
		if err != nil {
			utils.DBError(c, err, "Product not found")
			return
		}

		var reviews []models.Review
		if err := db.Preload("Reviewer").
			Where("product_id = ? AND status = ?", product.ID, models.ReviewStatusApproved).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		summary := ai.SummarizeReviews(c.Request.Context(), client, reviews)
		utils.Success(c, http.StatusOK, "Success", gin.H{"reviews": reviews, "summary": summary})
	}
}

// VoteHelpfulness records or switches a user's vote. Switching moves the
// tally from the old bucket to the new one.
func VoteHelpfulness(db *gorm.DB, reviewID, userID uint, helpful bool) error {
	vote := models.VoteHelpful
	if !helpful {
		vote = models.VoteNotHelpful
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return err
		}

		var existing models.ReviewVote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if err := tx.Create(&models.ReviewVote{ReviewID: reviewID, UserID: userID, Vote: vote}).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if existing.Vote == vote {
				return nil // unchanged
			}
			if existing.Vote == models.VoteHelpful {
				review.Helpful--
			} else {
				review.NotHelpful--
			}
			existing.Vote = vote
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}

		if helpful {
			review.Helpful++
		} else {
			review.NotHelpful++
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).Updates(map[string]interface{}{
			"helpful":     review.Helpful,
			"not_helpful": review.NotHelpful,
		}).Error
	})
}

// POST /reviews/:id/vote
func VoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input VoteInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("id")).Error; err != nil {
			utils.DBError(c, err, "Review not found")
			return
		}

		if err := VoteHelpfulness(db, review.ID, middleware.UserID(c), *input.Helpful); err != nil {
			utils.Internal(c, err)
			return
		}

		if err := db.First(&review, review.ID).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Vote recorded", gin.H{"review": review})
	}
}
