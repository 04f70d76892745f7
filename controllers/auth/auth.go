package authControllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type RegisterInput struct {
	Name      string `json:"name" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	StudentID string `json:"student_id"`
	College   string `json:"college"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type SellerApplyInput struct {
	BusinessName string `json:"business_name" binding:"required"`
	Description  string `json:"description"`
}

// POST /auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		email := strings.ToLower(strings.TrimSpace(input.Email))

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			utils.Fail(c, http.StatusBadRequest, "Email already registered")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.Internal(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
		if err != nil {
			utils.Internal(c, err)
			return
		}

		user := models.User{
			Name:              input.Name,
			Email:             email,
			Password:          string(hash),
			Role:              models.RoleStudent,
			StudentID:         input.StudentID,
			College:           input.College,
			IsVerifiedStudent: input.StudentID != "",
			IsActive:          true,
		}
		if err := db.Create(&user).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}

		token, err := middleware.SetAuthCookie(c, &user)
		if err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Registration successful", gin.H{"user": user, "token": token})
	}
}

// POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var user models.User
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid email or password")
			return
		}

		if user.IsBanned {
			reason := user.BanReason
			if reason == "" {
				reason = "Contact admin"
			}
			utils.Fail(c, http.StatusBadRequest, "Your account has been banned. Reason: "+reason)
			return
		}
		if !user.IsActive {
			utils.Fail(c, http.StatusBadRequest, "Your account is deactivated")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid email or password")
			return
		}

		now := time.Now()
		db.Model(&user).Update("last_login", now)

		token, err := middleware.SetAuthCookie(c, &user)
		if err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Login successful", gin.H{"user": user, "token": token})
	}
}

// GET /auth/me
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"user": user})
	}
}

type UpdateProfileInput struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	College *string         `json:"college"`
	Address *models.Address `json:"address"`
}

// PUT /auth/profile
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.College != nil {
			user.College = *input.College
		}
		if input.Address != nil {
			user.Address = *input.Address
		}

		if err := db.Save(&user).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Profile updated", gin.H{"user": user})
	}
}

// PUT /auth/password
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), 12)
		if err != nil {
			utils.Internal(c, err)
			return
		}
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		token, err := middleware.SetAuthCookie(c, &user)
		if err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Password updated", gin.H{"user": user, "token": token})
	}
}

// POST /auth/seller/apply
func ApplySeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SellerApplyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", middleware.UserID(c)).Error; err != nil {
			utils.DBError(c, err, "User not found")
			return
		}

		if user.SellerStatus == models.SellerStatusPending {
			utils.Fail(c, http.StatusBadRequest, "Seller application already pending")
			return
		}
		if user.SellerStatus == models.SellerStatusApproved {
			utils.Fail(c, http.StatusBadRequest, "Already an approved seller")
			return
		}

		now := time.Now()
		user.SellerStatus = models.SellerStatusPending
		user.SellerBusinessName = input.BusinessName
		user.SellerDescription = input.Description
		user.SellerAppliedAt = &now
		user.SellerReviewedAt = nil
		user.SellerReviewedBy = nil
		user.SellerRejectionReason = ""

		if err := db.Save(&user).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Seller application submitted", gin.H{"user": user})
	}
}
