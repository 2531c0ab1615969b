package repo

// Order status values. Transitions advance monotonically through the rank
// order; cancellation is allowed from any non-terminal status.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var orderStatusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusPreparing:  2,
	OrderStatusDelivering: 3,
	OrderStatusDelivered:  4,
}

// ValidOrderStatus reports whether s is a recognized status value.
func ValidOrderStatus(s string) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Delivered and cancelled orders are immutable.
func CanTransition(from, to string) bool {
	if from == OrderStatusDelivered || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := orderStatusRank[from]
	toRank, okTo := orderStatusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank > fromRank
}
