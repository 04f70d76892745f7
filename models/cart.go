package models

import (
	"time"

	"gorm.io/gorm"
)

type Cart struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex" json:"user_id"` // one cart per user

	Items      []CartItem  `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	SavedItems []SavedItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"saved_items"`

	// Derived totals, recomputed on every mutation
	Subtotal  float64 `json:"subtotal"`
	ItemCount int     `json:"item_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint      `gorm:"index:idx_cart_product,unique" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"` // catalog price at add time
	AddedAt   time.Time `json:"added_at"`
}

type SavedItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index" json:"cart_id"`
	ProductID uint      `json:"product_id"`
	SavedAt   time.Time `json:"saved_at"`
}

// GetOrCreateCart returns the user's cart, creating it lazily on first
// access. Carts are never deleted, only emptied.
func GetOrCreateCart(db *gorm.DB, userID uint) (*Cart, error) {
	var cart Cart
	err := db.Preload("Items").Preload("SavedItems").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cart = Cart{UserID: userID}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// RecalculateCartTotals rebuilds the derived subtotal and item count from
// the current line items and persists them on the cart row. Must run in the
// same transaction as the mutation that triggered it.
func RecalculateCartTotals(tx *gorm.DB, cartID uint) error {
	var items []CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}

	var subtotal float64
	var count int
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
		count += item.Quantity
	}

	return tx.Model(&Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"subtotal":   subtotal,
		"item_count": count,
	}).Error
}
