package repo

import "time"

// User represents the users table row, keyed naturally by phone number.
type User struct {
	ID        string
	Phone     string
	Name      *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product represents a catalog item offered on the menu.
type Product struct {
	ID          string
	ProductID   string
	Category    string
	Name        string
	Description string
	Price       float64
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem is a line-item snapshot stored inside an order. Prices are
// frozen at order time so later catalog edits do not rewrite history.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a row in the orders table.
type Order struct {
	ID              string
	OrderRef        string
	UserID          string
	Items           []OrderItem
	Subtotal        float64
	DeliveryFee     float64
	Total           float64
	DeliveryAddress string
	PaymentMethod   string
	Status          string
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	DeliveredAt     *time.Time
	UpdatedAt       time.Time
}

// MessageRecord is used to persist conversation logs.
type MessageRecord struct {
	UserID     string
	Direction  string
	Type       string
	Content    *string
	ExternalID *string
	CreatedAt  time.Time
}

// OrderStats aggregates order counts for the admin API.
type OrderStats struct {
	TotalOrders     int64
	PendingOrders   int64
	ConfirmedOrders int64
	DeliveredOrders int64
	TotalRevenue    float64
}

// MessageStats aggregates message volume over a window.
type MessageStats struct {
	TotalMessages    int64
	InboundMessages  int64
	OutboundMessages int64
}
