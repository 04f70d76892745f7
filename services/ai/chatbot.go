package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

const systemContext = `You are a helpful customer support assistant for the Campus Marketplace, a trusted platform for college students to buy and sell products. Your name is "Campus Assistant".

You can help with:
1. Finding products (electronics, study materials, event passes, subscriptions)
2. Order tracking and status updates
3. Return and refund policies
4. General platform questions
5. Seller inquiries

Platform Policies:
- Returns are accepted within 14 days for physical products
- Digital products are non-refundable once accessed
- Seller applications are reviewed within 48 hours
- All sellers must be verified students

Be friendly, concise, and helpful. If you don't know something, say so honestly.`

const fallbackReply = "I'm here to help! You can ask me about:\n• Finding products\n• Order tracking\n• Returns & refunds\n• Selling on the platform\n\nWhat would you like to know?"

const (
	IntentOrderTracking = "order_tracking"
	IntentRefundPolicy  = "refund_policy"
	IntentSellerInquiry = "seller_inquiry"
	IntentProductSearch = "product_search"
	IntentGeneral       = "general"
)

// Assistant is a stateless single-turn intent router. The only
// conversational memory is the caller-supplied trailing history.
type Assistant struct {
	db     *gorm.DB
	client *Client
}

func NewAssistant(db *gorm.DB, client *Client) *Assistant {
	return &Assistant{db: db, client: client}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Reply struct {
	Message     string      `json:"message"`
	Type        string      `json:"type"`
	Data        interface{} `json:"data,omitempty"`
	Suggestions []string    `json:"suggestions"`
	Intent      string      `json:"intent"`
}

var orderNumberPattern = regexp.MustCompile(`(?i)ORD-\w+`)

// Process classifies the message and dispatches to the matching handler.
// First matching rule wins, in priority order.
func (a *Assistant) Process(ctx context.Context, message string, userID uint, history []Message) Reply {
	intent, orderNumber := detectIntent(message)

	switch intent {
	case IntentOrderTracking:
		return a.trackOrder(orderNumber, userID)
	case IntentRefundPolicy:
		return Reply{Message: refundPolicyText, Type: "text", Intent: intent,
			Suggestions: []string{"Request a return", "Track my order", "Contact seller"}}
	case IntentSellerInquiry:
		return Reply{Message: sellerInfoText, Type: "text", Intent: intent,
			Suggestions: []string{"Apply now", "Seller commission rates", "Contact support"}}
	case IntentProductSearch:
		return a.searchProducts(message)
	default:
		return a.generalQuery(ctx, message, history)
	}
}

func detectIntent(message string) (string, string) {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "track") || strings.Contains(lower, "order status") || strings.Contains(lower, "where is my order") {
		return IntentOrderTracking, orderNumberPattern.FindString(message)
	}
	if strings.Contains(lower, "refund") || strings.Contains(lower, "return") || strings.Contains(lower, "money back") {
		return IntentRefundPolicy, ""
	}
	if strings.Contains(lower, "sell") || strings.Contains(lower, "become a seller") || strings.Contains(lower, "seller account") {
		return IntentSellerInquiry, ""
	}
	if strings.Contains(lower, "find") || strings.Contains(lower, "search") || strings.Contains(lower, "looking for") ||
		strings.Contains(lower, "electronics") || strings.Contains(lower, "textbook") || strings.Contains(lower, "study material") {
		return IntentProductSearch, ""
	}
	return IntentGeneral, ""
}

func (a *Assistant) trackOrder(orderNumber string, userID uint) Reply {
	var order models.Order
	var err error

	switch {
	case orderNumber != "":
		err = a.db.Preload("Timeline").Where("order_number = ?", strings.ToUpper(orderNumber)).First(&order).Error
	case userID != 0:
		// Most recent order for the caller
		err = a.db.Preload("Timeline").Where("customer_id = ?", userID).Order("created_at DESC").First(&order).Error
	default:
		err = gorm.ErrRecordNotFound
	}

	if err != nil {
		return Reply{
			Message:     "I couldn't find that order. Please provide a valid order number (e.g., ORD-2412-ABC123) or check your order history in your account.",
			Type:        "text",
			Intent:      IntentOrderTracking,
			Suggestions: []string{"View my orders", "Contact support"},
		}
	}

	msg := fmt.Sprintf("📦 Order: %s\n\nStatus: %s", order.OrderNumber, statusMessage(order.Status))
	if len(order.Timeline) > 0 {
		latest := order.Timeline[len(order.Timeline)-1]
		msg += fmt.Sprintf("\n\nLatest Update: %s\n%s", latest.Title, latest.Description)
	}

	return Reply{
		Message:     msg,
		Type:        "order_status",
		Data:        order,
		Intent:      IntentOrderTracking,
		Suggestions: []string{"Track another order", "Return policy", "Contact seller"},
	}
}

var fillerWords = regexp.MustCompile(`(?i)find|search|looking for|show me|i want|i need`)

func (a *Assistant) searchProducts(message string) Reply {
	terms := strings.TrimSpace(fillerWords.ReplaceAllString(message, ""))

	var products []models.Product
	err := a.db.Select("id", "title", "price", "category", "slug", "rating_average", "rating_count").
		Where("status = ? AND is_published = ?", models.StatusActive, true).
		Where("title LIKE ? OR description LIKE ?", "%"+terms+"%", "%"+terms+"%").
		Limit(5).
		Find(&products).Error
	if err != nil || len(products) == 0 {
		return Reply{
			Message:     fmt.Sprintf("I couldn't find any products matching %q. Would you like me to search for something else?", terms),
			Type:        "text",
			Intent:      IntentProductSearch,
			Suggestions: []string{"Show electronics", "Show study materials", "Show event passes"},
		}
	}

	var sb strings.Builder
	for _, p := range products {
		fmt.Fprintf(&sb, "• %s - $%.2f (%.1f⭐)\n", p.Title, p.Price, p.Ratings.Average)
	}

	return Reply{
		Message:     fmt.Sprintf("I found %d product(s) matching your search:\n\n%s\nWould you like more details on any of these?", len(products), sb.String()),
		Type:        "product_list",
		Data:        products,
		Intent:      IntentProductSearch,
		Suggestions: []string{"Show more details", "Search for something else", "View all products"},
	}
}

func (a *Assistant) generalQuery(ctx context.Context, message string, history []Message) Reply {
	// Trailing 5-turn window only
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	var sb strings.Builder
	for _, m := range history {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
	}

	prompt := systemContext + "\n\n"
	if sb.Len() > 0 {
		prompt += "Previous conversation:\n" + sb.String() + "\n"
	}
	prompt += "User's question: " + message + "\n\nProvide a helpful, concise response:"

	reply, err := a.client.Complete(ctx, prompt, 300)
	if err != nil {
		return Reply{
			Message:     fallbackReply,
			Type:        "text",
			Intent:      IntentGeneral,
			Suggestions: []string{"Search products", "Track order", "Refund policy", "Become a seller"},
		}
	}
	return Reply{
		Message:     reply,
		Type:        "text",
		Intent:      IntentGeneral,
		Suggestions: []string{"Search products", "Track order", "Contact support"},
	}
}

func statusMessage(s models.OrderStatus) string {
	switch s {
	case models.OrderStatusPending:
		return "Your order is pending confirmation."
	case models.OrderStatusConfirmed:
		return "Your order has been confirmed and is being processed."
	case models.OrderStatusProcessing:
		return "Your order is being prepared for shipment."
	case models.OrderStatusShipped:
		return "Your order has been shipped and is on its way!"
	case models.OrderStatusOutForDelivery:
		return "Your order is out for delivery today!"
	case models.OrderStatusDelivered:
		return "Your order has been delivered."
	case models.OrderStatusCompleted:
		return "Your order is complete."
	case models.OrderStatusCancelled:
		return "Your order has been cancelled."
	default:
		return string(s)
	}
}

const refundPolicyText = `📋 Return & Refund Policy

Physical Products:
• Returns accepted within 14 days of delivery
• Item must be in original condition
• Buyer pays return shipping unless item was defective
• Refund processed within 5-7 business days

Digital Products:
• Non-refundable once downloaded/accessed
• If file is corrupted or wrong, contact support
• Replacements available for technical issues

Event Passes:
• Refundable up to 24 hours before event
• 10% cancellation fee applies
• Transfer to another student is allowed

How to Request a Return:
1. Go to your Orders page
2. Select the order and item
3. Click "Request Return"
4. Provide reason and photos if applicable

Need help with a specific return? Let me know your order number!`

const sellerInfoText = `🏪 Become a Seller on Campus Marketplace

Requirements:
• Must be a verified student
• Valid student ID required
• Active email address

Benefits:
• 0% commission for first month
• Access to campus customer base
• Easy product listing tools
• Secure payments

How to Apply:
1. Complete your student verification
2. Go to Settings → Become a Seller
3. Fill out the application form
4. Wait for approval (usually 24-48 hours)

What You Can Sell:
• Electronics (new or used)
• Study materials & textbooks
• Event passes
• Digital products & subscriptions

Ready to start selling? Go to your profile settings to apply!`
