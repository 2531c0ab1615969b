package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWithButtonsClampsLimits(t *testing.T) {
	msg := WithButtons("elige",
		Button{ID: "a", Title: "Una opción con un título demasiado largo"},
		Button{ID: "b", Title: "B"},
		Button{ID: "c", Title: "C"},
		Button{ID: "d", Title: "D"},
	)

	if len(msg.Buttons) != MaxButtons {
		t.Errorf("buttons = %d, want %d", len(msg.Buttons), MaxButtons)
	}
	if got := len([]rune(msg.Buttons[0].Title)); got > MaxButtonTitle {
		t.Errorf("title length = %d, want <= %d", got, MaxButtonTitle)
	}
}

func TestWithListClampsRows(t *testing.T) {
	rows := make([]ListRow, 12)
	for i := range rows {
		rows[i] = ListRow{ID: "r", Title: "fila"}
	}
	msg := WithList("menú", "Ver opciones", rows...)
	if len(msg.List.Rows) != MaxListRows {
		t.Errorf("rows = %d, want %d", len(msg.List.Rows), MaxListRows)
	}
}

func TestRenderText(t *testing.T) {
	plain := Text("hola")
	if plain.RenderText() != "hola" {
		t.Errorf("plain render = %q", plain.RenderText())
	}

	buttons := WithButtons("¿Qué deseas hacer?",
		Button{ID: "btn_menu", Title: "Ver menú"},
		Button{ID: "btn_order", Title: "Hacer pedido"},
	)
	rendered := buttons.RenderText()
	if !strings.Contains(rendered, "1. Ver menú") || !strings.Contains(rendered, "2. Hacer pedido") {
		t.Errorf("buttons render = %q", rendered)
	}

	list := WithList("Nuestro menú", "Ver",
		ListRow{ID: "tacos", Title: "Tacos", Description: "$45"},
	)
	if !strings.Contains(list.RenderText(), "1. Tacos - $45") {
		t.Errorf("list render = %q", list.RenderText())
	}
}

func TestMetaSenderPayloads(t *testing.T) {
	var payloads []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/12345/messages") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Error("missing bearer token")
		}
		var p map[string]any
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		payloads = append(payloads, p)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewMetaSender(MetaConfig{
		AccessToken: "token",
		PhoneID:     "12345",
		BaseURL:     srv.URL,
	}, nil, testLogger())

	ctx := context.Background()
	if err := s.Send(ctx, "5215512345678", Text("hola")); err != nil {
		t.Fatalf("send text: %v", err)
	}
	if err := s.Send(ctx, "5215512345678", WithButtons("elige", Button{ID: "a", Title: "A"})); err != nil {
		t.Fatalf("send buttons: %v", err)
	}
	if err := s.Send(ctx, "5215512345678", WithList("menú", "Ver", ListRow{ID: "x", Title: "X"})); err != nil {
		t.Fatalf("send list: %v", err)
	}
	if err := s.MarkRead(ctx, "wamid.test"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	if len(payloads) != 4 {
		t.Fatalf("requests = %d, want 4", len(payloads))
	}
	if payloads[0]["type"] != "text" {
		t.Errorf("first payload type = %v", payloads[0]["type"])
	}
	if payloads[1]["type"] != "interactive" {
		t.Errorf("second payload type = %v", payloads[1]["type"])
	}
	if payloads[3]["status"] != "read" {
		t.Errorf("read payload = %v", payloads[3])
	}
}

func TestMetaSenderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad token"}}`))
	}))
	defer srv.Close()

	s := NewMetaSender(MetaConfig{AccessToken: "x", PhoneID: "1", BaseURL: srv.URL}, nil, testLogger())
	if err := s.Send(context.Background(), "5215512345678", Text("hola")); err == nil {
		t.Error("expected error on 401")
	}
}
