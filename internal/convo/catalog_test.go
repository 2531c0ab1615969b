package convo

import (
	"strings"
	"testing"

	"bot-pedidos/internal/repo"
)

func catalogFixture() []repo.Product {
	return []repo.Product{
		{ProductID: "tacos_pastor", Category: "Tacos", Name: "Tacos al Pastor", Description: "Orden de 3 tacos", Price: 45, Available: true},
		{ProductID: "tacos_bistec", Category: "Tacos", Name: "Tacos de Bistec", Description: "Orden de 3 tacos", Price: 50, Available: true},
		{ProductID: "quesadilla", Category: "Antojitos", Name: "Quesadilla de Queso", Description: "Con tortilla hecha a mano", Price: 35, Available: true},
		{ProductID: "agua_horchata", Category: "Bebidas", Name: "Agua de Horchata", Description: "Vaso grande", Price: 25, Available: false},
	}
}

func TestParseItemRequest(t *testing.T) {
	tests := []struct {
		in       string
		quantity int
		query    string
	}{
		{"2 tacos al pastor", 2, "tacos al pastor"},
		{"3x quesadilla", 3, "quesadilla"},
		{"quesadilla", 1, "quesadilla"},
		{"  10 aguas  ", 10, "aguas"},
		{"0 tacos", 1, "0 tacos"},
	}
	for _, tc := range tests {
		quantity, query := parseItemRequest(tc.in)
		if quantity != tc.quantity || query != tc.query {
			t.Errorf("parseItemRequest(%q) = (%d, %q), want (%d, %q)", tc.in, quantity, query, tc.quantity, tc.query)
		}
	}
}

func TestMatchProductsRanksByRelevance(t *testing.T) {
	products := catalogFixture()

	got := matchProducts(products, "tacos al pastor", 1)
	if len(got) != 1 || got[0].ProductID != "tacos_pastor" {
		t.Fatalf("match = %+v", got)
	}

	// "tacos" alone ties on score; the cheaper product wins.
	got = matchProducts(products, "tacos", 2)
	if len(got) != 2 || got[0].ProductID != "tacos_pastor" || got[1].ProductID != "tacos_bistec" {
		t.Fatalf("tie break = %+v", got)
	}
}

func TestMatchProductsAccentInsensitive(t *testing.T) {
	products := catalogFixture()
	got := matchProducts(products, "quesadílla", 1)
	if len(got) != 1 || got[0].ProductID != "quesadilla" {
		t.Fatalf("match = %+v", got)
	}
}

func TestMatchProductsNoHit(t *testing.T) {
	if got := matchProducts(catalogFixture(), "pizza hawaiana", 5); len(got) != 0 {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if got := matchProducts(catalogFixture(), "", 5); got != nil {
		t.Fatalf("empty query matched: %+v", got)
	}
}

func TestFormatMenuGroupsAndMarksAvailability(t *testing.T) {
	menu := formatMenu(catalogFixture())

	for _, want := range []string{"NUESTRO MENÚ", "*Tacos*", "*Antojitos*", "*Bebidas*", "✅ *Tacos al Pastor* - $45.00", "❌ *Agua de Horchata* - $25.00"} {
		if !strings.Contains(menu, want) {
			t.Errorf("menu missing %q:\n%s", want, menu)
		}
	}

	if !strings.Contains(formatMenu(nil), "no está disponible") {
		t.Errorf("empty menu message wrong")
	}
}
