package models

import "time"

type ReviewStatus string
type VoteKind string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
	ReviewStatusFlagged  ReviewStatus = "flagged"

	VoteHelpful    VoteKind = "helpful"
	VoteNotHelpful VoteKind = "not-helpful"
)

type Review struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	ProductID  uint  `gorm:"index:idx_product_reviewer,unique;not null" json:"product_id"`
	ReviewerID uint  `gorm:"index:idx_product_reviewer,unique;not null" json:"reviewer_id"`
	Reviewer   User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	OrderID    *uint `json:"order_id,omitempty"` // purchase reference, if any

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Title   string `json:"title"`
	Content string `gorm:"not null" json:"content"`
	Pros    string `json:"pros,omitempty"`
	Cons    string `json:"cons,omitempty"`

	AIAnalysis ReviewAnalysis `gorm:"embedded;embeddedPrefix:ai_" json:"ai_analysis"`

	Helpful    int          `json:"helpful"`
	NotHelpful int          `json:"not_helpful"`
	Votes      []ReviewVote `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`

	SellerResponse string     `json:"seller_response,omitempty"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`

	Status             ReviewStatus `gorm:"type:VARCHAR(10);default:'approved'" json:"status"`
	IsVerifiedPurchase bool         `json:"is_verified_purchase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewAnalysis holds the AI sentiment verdict for a single review.
type ReviewAnalysis struct {
	Sentiment      string     `gorm:"default:'neutral'" json:"sentiment"` // positive|negative|neutral|mixed
	SentimentScore float64    `json:"sentiment_score"`                    // -1..1
	Summary        string     `json:"summary,omitempty"`
	IsSpam         bool       `json:"is_spam"`
	SpamScore      float64    `json:"spam_score"` // 0..1
	AnalyzedAt     *time.Time `json:"analyzed_at,omitempty"`
}

// ReviewVote enforces one helpfulness vote per user per review.
type ReviewVote struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	ReviewID uint     `gorm:"index:idx_review_voter,unique" json:"review_id"`
	UserID   uint     `gorm:"index:idx_review_voter,unique" json:"user_id"`
	Vote     VoteKind `gorm:"type:VARCHAR(12)" json:"vote"`
}
