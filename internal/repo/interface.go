package repo

import (
	"context"
	"errors"
	"io/fs"
	"time"
)

var (
	// ErrNotFound is returned when a lookup by natural key matches nothing.
	ErrNotFound = errors.New("repo: not found")
	// ErrInvalidTransition is returned when an order status update would
	// move backwards or leave a terminal status.
	ErrInvalidTransition = errors.New("repo: invalid order status transition")
)

// Repository defines the interface for data persistence.
type Repository interface {
	// Lifecycle
	Close()
	Ping(ctx context.Context) error
	RunMigrations(ctx context.Context, filesystem fs.FS) error

	// Users
	UpsertUserByPhone(ctx context.Context, phone string) (*User, bool, error)
	GetUserByPhone(ctx context.Context, phone string) (*User, error)
	UpdateUserName(ctx context.Context, phone, name string) error
	ListUsers(ctx context.Context, limit int) ([]User, error)

	// Products
	ListProducts(ctx context.Context, category string, onlyAvailable bool) ([]Product, error)
	SetProductAvailability(ctx context.Context, productID string, available bool) error

	// Orders
	InsertOrder(ctx context.Context, order Order) (*Order, error)
	GetOrderByRef(ctx context.Context, ref string) (*Order, error)
	LatestOrderByPhone(ctx context.Context, phone string) (*Order, error)
	ListOrders(ctx context.Context, status string, limit int) ([]Order, error)
	ListOrdersByPhone(ctx context.Context, phone string) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, ref, status string) (*Order, error)
	OrderStats(ctx context.Context) (*OrderStats, error)

	// Messages
	InsertMessage(ctx context.Context, msg MessageRecord) error
	ListRecentMessages(ctx context.Context, userID string, limit int) ([]MessageRecord, error)
	MessageStats(ctx context.Context, since time.Time) (*MessageStats, error)
}
