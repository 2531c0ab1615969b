package kb

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEntries() []Entry {
	return []Entry{
		{
			ID:       "envio",
			Type:     "faq",
			Content:  "Hacemos entregas a domicilio en toda la zona centro. El costo de envío es de $30.",
			Keywords: []string{"envío", "entrega", "domicilio", "delivery"},
		},
		{
			ID:       "horario",
			Type:     "hours",
			Content:  "Abrimos de lunes a sábado de 9:00 a 22:00.",
			Keywords: []string{"horario", "abierto", "hora"},
		},
		{
			ID:       "pagos",
			Type:     "payment",
			Content:  "Aceptamos efectivo, tarjeta a la entrega y transferencia bancaria.",
			Keywords: []string{"pago", "efectivo", "tarjeta", "transferencia"},
		},
	}
}

func TestSearchKeywordHit(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	matches := b.Search("¿tienen envío?", 3)
	if len(matches) == 0 {
		t.Fatal("no matches for envío query")
	}
	if matches[0].Entry.ID != "envio" {
		t.Errorf("top match = %q, want envio", matches[0].Entry.ID)
	}
}

func TestSearchAccentFolding(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	// Unaccented query must still hit the accented keyword.
	matches := b.Search("cuanto cuesta el envio", 3)
	if len(matches) == 0 || matches[0].Entry.ID != "envio" {
		t.Fatalf("unaccented query missed: %+v", matches)
	}
}

func TestSearchBelowThreshold(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	if matches := b.Search("astronomía cuántica", 3); len(matches) != 0 {
		t.Errorf("irrelevant query returned %d matches", len(matches))
	}
	if matches := b.Search("", 3); len(matches) != 0 {
		t.Errorf("empty query returned %d matches", len(matches))
	}
}

func TestSearchRanking(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	matches := b.Search("pago con tarjeta o transferencia", 3)
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	if matches[0].Entry.ID != "pagos" {
		t.Errorf("top match = %q, want pagos", matches[0].Entry.ID)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Error("matches not sorted by score")
		}
	}
}

func TestSearchTopK(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	matches := b.Search("entrega horario pago efectivo domicilio", 1)
	if len(matches) > 1 {
		t.Errorf("topK=1 returned %d matches", len(matches))
	}
}

func TestContextForLLM(t *testing.T) {
	b := FromEntries(testEntries(), testLogger())

	ctx := b.ContextForLLM("horario de atención", 3)
	if !strings.Contains(ctx, "lunes a sábado") {
		t.Errorf("context missing hours entry: %q", ctx)
	}

	empty := b.ContextForLLM("tema sin relación alguna aquí", 3)
	if !strings.Contains(empty, "No se encontró") {
		t.Errorf("empty context = %q", empty)
	}
}

func TestLoadAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	content := `[{"id": "promo", "type": "faq", "content": "Los martes hay promoción de tacos.", "keywords": ["promoción", "martes"]}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("entries = %d, want 1", b.Len())
	}

	updated := `[
		{"id": "promo", "type": "faq", "content": "Los martes hay promoción de tacos.", "keywords": ["promoción"]},
		{"id": "wifi", "type": "faq", "content": "Tenemos wifi gratis para clientes.", "keywords": ["wifi"]}
	]`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := b.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("entries after reload = %d, want 2", b.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "missing.json"), testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("entries = %d, want 0", b.Len())
	}
}
