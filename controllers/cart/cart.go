package cartControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateQuantityInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type ProductRefInput struct {
	ProductID uint `json:"product_id" binding:"required"`
}

func loadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	return models.GetOrCreateCart(db, userID)
}

func reloadCart(db *gorm.DB, c *gin.Context, cartID uint, message string) {
	var cart models.Cart
	if err := db.Preload("Items").Preload("SavedItems").First(&cart, cartID).Error; err != nil {
		utils.Internal(c, err)
		return
	}
	utils.Success(c, http.StatusOK, message, gin.H{"cart": cart})
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"cart": cart})
	}
}

// AddItem merges into an existing line for the same product: quantity is
// incremented and the line price refreshed to the current catalog price.
func AddItem(db *gorm.DB, cartID, productID uint, quantity int, price float64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			item = models.CartItem{
				CartID:    cartID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     price,
				AddedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Quantity += quantity
			item.Price = price
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}
		return models.RecalculateCartTotals(tx, cartID)
	})
}

// POST /cart/items
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil || product.Status != models.StatusActive {
			utils.Fail(c, http.StatusNotFound, "Product not available")
			return
		}

		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}

		if err := AddItem(db, cart.ID, product.ID, input.Quantity, product.Price); err != nil {
			utils.Internal(c, err)
			return
		}
		reloadCart(db, c, cart.ID, "Added to cart")
	}
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func UpdateQuantity(db *gorm.DB, cartID, productID uint, quantity int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if quantity <= 0 {
			if err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return models.RecalculateCartTotals(tx, cartID)
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return models.RecalculateCartTotals(tx, cartID)
	})
}

// PUT /cart/items
func UpdateItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}

		if err := UpdateQuantity(db, cart.ID, input.ProductID, input.Quantity); err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Fail(c, http.StatusNotFound, "Item not found in cart")
				return
			}
			utils.Internal(c, err)
			return
		}
		reloadCart(db, c, cart.ID, "Cart updated")
	}
}

// DELETE /cart/items/:product_id
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			result := tx.Where("cart_id = ? AND product_id = ?", cart.ID, c.Param("product_id")).Delete(&models.CartItem{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return models.RecalculateCartTotals(tx, cart.ID)
		})
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Fail(c, http.StatusNotFound, "Item not found in cart")
				return
			}
			utils.Internal(c, err)
			return
		}
		reloadCart(db, c, cart.ID, "Item removed")
	}
}

// PUT /cart/save-for-later
func SaveForLater(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductRefInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var item models.CartItem
			if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).First(&item).Error; err != nil {
				return err
			}

			var saved models.SavedItem
			if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).First(&saved).Error; err == gorm.ErrRecordNotFound {
				if err := tx.Create(&models.SavedItem{CartID: cart.ID, ProductID: input.ProductID, SavedAt: time.Now()}).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			return models.RecalculateCartTotals(tx, cart.ID)
		})
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Fail(c, http.StatusNotFound, "Item not found in cart")
				return
			}
			utils.Internal(c, err)
			return
		}
		reloadCart(db, c, cart.ID, "Saved for later")
	}
}

// PUT /cart/move-to-cart
func MoveToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductRefInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		cart, err := loadCart(db, middleware.UserID(c))
		if err != nil {
			utils.Internal(c, err)
			return
		}

		var saved models.SavedItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, input.ProductID).First(&saved).Error; err != nil {
			utils.Fail(c, http.StatusNotFound, "Item not found in saved items")
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil || product.Status != models.StatusActive {
			utils.Fail(c, http.StatusNotFound, "Product not available")
			return
		}

		if err := AddItem(db, cart.ID, product.ID, 1, product.Price); err != nil {
			utils.Internal(c, err)
			return
		}
		if err := db.Delete(&saved).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		reloadCart(db, c, cart.ID, "Moved to cart")
	}
}
