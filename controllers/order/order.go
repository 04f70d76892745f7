package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/middleware"
	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

const physicalShippingFlat = 5.0
const taxRate = 0.07

var ErrEmptyCart = errors.New("cart is empty")

// -------- Request Structs --------

type PlaceOrderRequest struct {
	PaymentMethod   string          `json:"payment_method" binding:"required"`
	ShippingAddress *models.Address `json:"shipping_address"`
	CustomerNotes   string          `json:"customer_notes"`
}

type UpdateStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	TimelineNote string `json:"timeline_note"`
}

type UnlockDigitalRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
	ItemID  uint `json:"item_id" binding:"required"`
}

// -------- Helpers --------

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateOrderNumber builds the human-readable order reference,
// e.g. ORD-2509-3FA2B1. Assigned once at creation, never reassigned.
func generateOrderNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "ORD-" + now.Format("0601") + "-" + random
}

func deriveOrderType(items []models.OrderItem) models.OrderType {
	allDigital, allPhysical := true, true
	for _, item := range items {
		if item.ProductType != models.TypeDigital {
			allDigital = false
		}
		if item.ProductType != models.TypePhysical {
			allPhysical = false
		}
	}
	switch {
	case allDigital:
		return models.OrderTypeDigital
	case allPhysical:
		return models.OrderTypePhysical
	default:
		return models.OrderTypeMixed
	}
}

// -------- Core Logic --------

// PlaceOrder turns the user's cart into an order as one unit of work:
// snapshot the lines at cart-time prices, compute pricing server-side,
// decrement physical stock and empty the cart. A product that vanished
// since it was carted keeps its snapshot line; only the stock step is
// skipped. Stock is clamped at zero rather than rejecting oversell.
func PlaceOrder(db *gorm.DB, userID uint, req PlaceOrderRequest) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		hasPhysical := false
		var orderItems []models.OrderItem

		for _, item := range cart.Items {
			subtotal += item.Price * float64(item.Quantity)

			orderItem := models.OrderItem{
				ProductID:     item.ProductID,
				Price:         item.Price,
				Quantity:      item.Quantity,
				DownloadLimit: -1,
			}

			var product models.Product
			err := tx.Preload("Images").First(&product, "id = ?", item.ProductID).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				// Listing vanished mid-checkout: keep the line, skip stock.
				orderItem.ProductTitle = "(removed listing)"
				orderItem.ProductPrice = item.Price
			case err != nil:
				return err
			default:
				orderItem.ProductTitle = product.Title
				orderItem.ProductPrice = product.Price
				orderItem.ProductType = product.ProductType
				orderItem.SellerID = product.SellerID
				if len(product.Images) > 0 {
					orderItem.ProductImage = product.Images[0].URL
				}
				if product.ProductType == models.TypeDigital {
					orderItem.DownloadLimit = product.DownloadLimit
				}
				if product.ProductType == models.TypePhysical {
					hasPhysical = true
					newStock := product.Stock - item.Quantity
					if newStock < 0 {
						newStock = 0
					}
					if err := tx.Model(&product).Update("stock", newStock).Error; err != nil {
						return err
					}
				}
			}

			orderItems = append(orderItems, orderItem)
		}

		shipping := 0.0
		if hasPhysical {
			shipping = physicalShippingFlat
		}
		tax := round2(subtotal * taxRate)

		now := time.Now()
		order = models.Order{
			OrderNumber: generateOrderNumber(now),
			CustomerID:  userID,
			Items:       orderItems,
			Pricing: models.Pricing{
				Subtotal: subtotal,
				Shipping: shipping,
				Tax:      tax,
				Discount: 0,
				Total:    round2(subtotal + shipping + tax),
			},
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: models.PaymentStatusCompleted,
			PaidAt:        &now,
			Status:        models.OrderStatusConfirmed,
			OrderType:     deriveOrderType(orderItems),
			CustomerNotes: req.CustomerNotes,
			Timeline: []models.OrderTimelineEvent{{
				Status:      string(models.OrderStatusConfirmed),
				Title:       "Order confirmed",
				Description: "Payment received",
				Timestamp:   now,
			}},
		}
		if req.ShippingAddress != nil {
			order.ShippingAddress = *req.ShippingAddress
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Empty the cart (never delete it)
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return models.RecalculateCartTotals(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		order, err := PlaceOrder(db, middleware.UserID(c), req)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				utils.Fail(c, http.StatusBadRequest, "Cart is empty")
				return
			}
			utils.Internal(c, err)
			return
		}

		broadcastNewOrder(*order)
		utils.Success(c, http.StatusCreated, "Order placed", gin.H{"order": order})
	}
}

// GET /orders/me
func MyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Preload("Timeline").
			Where("customer_id = ?", middleware.UserID(c)).
			Order("created_at DESC").
			Limit(20).
			Find(&orders).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Success", gin.H{"orders": orders})
	}
}

// PUT /orders/:orderID/status
//
// Any member of the status set is accepted from an authorized caller; the
// advisory sequence is not enforced. Every change appends a timeline entry.
func UpdateStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		status := strings.ToLower(req.Status)
		if !models.ValidOrderStatus(status) {
			utils.Fail(c, http.StatusBadRequest, "Invalid order status")
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", c.Param("orderID")).Error; err != nil {
			utils.DBError(c, err, "Order not found")
			return
		}

		updatedBy := middleware.UserID(c)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&order).Update("status", status).Error; err != nil {
				return err
			}
			return tx.Create(&models.OrderTimelineEvent{
				OrderID:     order.ID,
				Status:      status,
				Title:       status,
				Description: req.TimelineNote,
				Timestamp:   time.Now(),
				UpdatedBy:   &updatedBy,
			}).Error
		})
		if err != nil {
			utils.Internal(c, err)
			return
		}

		if err := db.Preload("Items").Preload("Timeline").First(&order, order.ID).Error; err != nil {
			utils.Internal(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Order status updated", gin.H{"order": order})
	}
}

// POST /orders/digital/unlock
//
// Unlocking is idempotent: a second call re-confirms the unlocked state.
// The download limit is informational and not enforced here.
func UnlockDigitalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnlockDigitalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", req.OrderID).Error; err != nil {
			utils.DBError(c, err, "Order not found")
			return
		}
		if order.CustomerID != middleware.UserID(c) {
			utils.Fail(c, http.StatusForbidden, "Not authorized")
			return
		}

		var item *models.OrderItem
		for i := range order.Items {
			if order.Items[i].ID == req.ItemID {
				item = &order.Items[i]
				break
			}
		}
		if item == nil {
			utils.Fail(c, http.StatusNotFound, "Order item not found")
			return
		}
		if item.ProductType != models.TypeDigital {
			utils.Fail(c, http.StatusBadRequest, "Item is not a digital product")
			return
		}

		if !item.IsUnlocked {
			if err := db.Model(item).Update("is_unlocked", true).Error; err != nil {
				utils.Internal(c, err)
				return
			}
			item.IsUnlocked = true
		}

		utils.Success(c, http.StatusOK, "Digital item unlocked", gin.H{"order": order})
	}
}
