package repo

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusDelivering, true},
		{OrderStatusDelivering, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusDelivering, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusDelivering, OrderStatusPreparing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusDelivering, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusDelivering, OrderStatusCancelled, true},
		{OrderStatusPending, "mystery", false},
		{"mystery", OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false, want true", s)
		}
	}
	if ValidOrderStatus("shipped") {
		t.Error("ValidOrderStatus(\"shipped\") = true, want false")
	}
	if ValidOrderStatus("") {
		t.Error("ValidOrderStatus(\"\") = true, want false")
	}
}
