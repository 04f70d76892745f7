package models

import "time"

type UserRole string
type SellerStatus string

const (
	RoleStudent UserRole = "student"
	RoleSeller  UserRole = "seller"
	RoleAdmin   UserRole = "admin"

	// Seller application lifecycle
	SellerStatusNone     SellerStatus = "none"
	SellerStatusPending  SellerStatus = "pending"
	SellerStatusApproved SellerStatus = "approved"
	SellerStatusRejected SellerStatus = "rejected"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Role              UserRole `gorm:"type:VARCHAR(20);default:'student'" json:"role"`
	IsVerifiedStudent bool     `json:"is_verified_student"`
	StudentID         string   `json:"student_id"`
	College           string   `json:"college"`

	// Seller application, flattened
	SellerStatus          SellerStatus `gorm:"type:VARCHAR(20);default:'none'" json:"seller_status"`
	SellerBusinessName    string       `json:"seller_business_name,omitempty"`
	SellerDescription     string       `json:"seller_description,omitempty"`
	SellerAppliedAt       *time.Time   `json:"seller_applied_at,omitempty"`
	SellerReviewedAt      *time.Time   `json:"seller_reviewed_at,omitempty"`
	SellerReviewedBy      *uint        `json:"seller_reviewed_by,omitempty"`
	SellerRejectionReason string       `json:"seller_rejection_reason,omitempty"`
	SellerRatingAverage   float64      `json:"seller_rating_average"`
	SellerRatingCount     int          `json:"seller_rating_count"`

	Avatar  string  `json:"avatar"`
	Phone   string  `json:"phone"`
	Address Address `gorm:"embedded" json:"address"`

	IsActive  bool   `gorm:"default:true" json:"is_active"`
	IsBanned  bool   `json:"is_banned"`
	BanReason string `json:"ban_reason,omitempty"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Address model embedded in User and Order
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}
