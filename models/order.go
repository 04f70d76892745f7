package models

import "time"

type OrderStatus string
type OrderType string
type PaymentStatus string

const (
	// Advisory flow: pending → confirmed → processing → shipped →
	// out-for-delivery → delivered → completed. cancelled/refunded are
	// side branches. Transitions are not enforced, only logged.
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"

	OrderTypePhysical OrderType = "physical"
	OrderTypeDigital  OrderType = "digital"
	OrderTypeMixed    OrderType = "mixed"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`

	CustomerID uint `gorm:"not null;index" json:"customer_id"`
	Customer   User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	Pricing Pricing `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`

	PaymentMethod string        `json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`

	ShippingAddress Address `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	Status   OrderStatus          `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Timeline []OrderTimelineEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"timeline"`

	OrderType OrderType `gorm:"type:VARCHAR(10);not null" json:"order_type"`

	CustomerNotes string `json:"customer_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Pricing struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"` // reserved for coupon logic
	Total    float64 `json:"total"`
}

// OrderItem freezes the product attributes at purchase time. Subsequent
// catalog edits never touch these columns.
type OrderItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	OrderID   uint `gorm:"index" json:"order_id"`
	ProductID uint `json:"product_id"`

	ProductTitle string      `json:"product_title"`
	ProductPrice float64     `json:"product_price"`
	ProductImage string      `json:"product_image"`
	ProductType  ProductType `json:"product_type"`
	SellerID     uint        `json:"seller_id"`

	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"` // line price at cart-item time

	// Digital entitlement tracking
	IsUnlocked    bool `json:"is_unlocked"`
	DownloadCount int  `json:"download_count"`
	DownloadLimit int  `gorm:"default:-1" json:"download_limit"` // informational only
}

// OrderTimelineEvent is an append-only status-change log entry.
type OrderTimelineEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"index" json:"order_id"`
	Status      string    `gorm:"not null" json:"status"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	UpdatedBy   *uint     `json:"updated_by,omitempty"`
}

// ValidOrderStatus reports whether s is a member of the known status set.
// Membership is the only check; the sequence itself is advisory.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}
