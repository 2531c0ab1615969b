package session

import "time"

// Conversation states. A session always has exactly one.
const (
	StateNew              = "new"
	StateWelcomeShown     = "welcome_shown"
	StateBrowsingMenu     = "browsing_menu"
	StateBuildingCart     = "building_cart"
	StateAwaitingAddress  = "awaiting_address"
	StateAwaitingPayment  = "awaiting_payment"
	StateConfirmingOrder  = "confirming_order"
	StateOrderConfirmed   = "order_confirmed"
	StateSupportEscalated = "support_escalated"
)

// CartItem is a product the user has added but not yet ordered.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Session holds the per-user conversation state between messages. It lives in
// Redis under a TTL; expiry resets the user to a fresh conversation.
type Session struct {
	Phone           string         `json:"phone"`
	State           string         `json:"state"`
	HasSeenWelcome  bool           `json:"has_seen_welcome"`
	Cart            []CartItem     `json:"cart,omitempty"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
	PaymentMethod   string         `json:"payment_method,omitempty"`
	LastOrderRef    string         `json:"last_order_ref,omitempty"`
	TopicCounts     map[string]int `json:"topic_counts,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	LastMessageAt   time.Time      `json:"last_message_at"`
}

// New returns a fresh session for a phone number.
func New(phone string, now time.Time) *Session {
	return &Session{
		Phone:         phone,
		State:         StateNew,
		TopicCounts:   map[string]int{},
		CreatedAt:     now,
		LastMessageAt: now,
	}
}

// CartSubtotal sums price times quantity over the cart.
func (s *Session) CartSubtotal() float64 {
	var total float64
	for _, item := range s.Cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// AddToCart merges an item into the cart, bumping the quantity when the
// product is already present.
func (s *Session) AddToCart(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range s.Cart {
		if s.Cart[i].ProductID == item.ProductID {
			s.Cart[i].Quantity += item.Quantity
			return
		}
	}
	s.Cart = append(s.Cart, item)
}

// ClearOrderDraft drops the cart and delivery details, keeping identity and
// topic history intact.
func (s *Session) ClearOrderDraft() {
	s.Cart = nil
	s.DeliveryAddress = ""
	s.PaymentMethod = ""
}

// BumpTopic increments how often a topic has come up and returns the new
// count. Used to shorten answers on repeat questions.
func (s *Session) BumpTopic(topic string) int {
	if s.TopicCounts == nil {
		s.TopicCounts = map[string]int{}
	}
	s.TopicCounts[topic]++
	return s.TopicCounts[topic]
}
