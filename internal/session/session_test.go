package session

import (
	"testing"
	"time"
)

func TestNewSession(t *testing.T) {
	now := time.Now()
	s := New("5215512345678", now)

	if s.State != StateNew {
		t.Errorf("state = %q, want %q", s.State, StateNew)
	}
	if s.HasSeenWelcome {
		t.Error("fresh session should not have seen welcome")
	}
	if len(s.Cart) != 0 {
		t.Errorf("fresh session cart has %d items", len(s.Cart))
	}
}

func TestAddToCartMergesQuantities(t *testing.T) {
	s := New("5215512345678", time.Now())
	s.AddToCart(CartItem{ProductID: "tacos_pastor", Name: "Tacos al Pastor", Price: 45, Quantity: 2})
	s.AddToCart(CartItem{ProductID: "agua_horchata", Name: "Agua de Horchata", Price: 25, Quantity: 1})
	s.AddToCart(CartItem{ProductID: "tacos_pastor", Name: "Tacos al Pastor", Price: 45, Quantity: 1})

	if len(s.Cart) != 2 {
		t.Fatalf("cart has %d lines, want 2", len(s.Cart))
	}
	if s.Cart[0].Quantity != 3 {
		t.Errorf("tacos quantity = %d, want 3", s.Cart[0].Quantity)
	}
	if got, want := s.CartSubtotal(), 45.0*3+25.0; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	s := New("5215512345678", time.Now())
	s.AddToCart(CartItem{ProductID: "quesadilla", Name: "Quesadilla", Price: 35})
	if s.Cart[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", s.Cart[0].Quantity)
	}
}

func TestClearOrderDraftKeepsIdentity(t *testing.T) {
	s := New("5215512345678", time.Now())
	s.HasSeenWelcome = true
	s.BumpTopic("envio")
	s.AddToCart(CartItem{ProductID: "tacos_pastor", Name: "Tacos al Pastor", Price: 45, Quantity: 2})
	s.DeliveryAddress = "Av. Reforma 123"
	s.PaymentMethod = "efectivo"

	s.ClearOrderDraft()

	if len(s.Cart) != 0 || s.DeliveryAddress != "" || s.PaymentMethod != "" {
		t.Error("order draft not cleared")
	}
	if !s.HasSeenWelcome {
		t.Error("welcome flag should survive draft reset")
	}
	if s.TopicCounts["envio"] != 1 {
		t.Error("topic history should survive draft reset")
	}
}

func TestBumpTopic(t *testing.T) {
	s := New("5215512345678", time.Now())
	s.TopicCounts = nil
	if got := s.BumpTopic("horario"); got != 1 {
		t.Errorf("first bump = %d, want 1", got)
	}
	if got := s.BumpTopic("horario"); got != 2 {
		t.Errorf("second bump = %d, want 2", got)
	}
}
