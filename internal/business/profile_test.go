package business

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name == "" || len(p.PaymentMethods) == 0 {
		t.Error("defaults not applied")
	}
	if !p.IsOpen(time.Now()) {
		t.Error("default profile without hours should always be open")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "business.json")
	content := `{
		"name": "Taquería El Buen Sabor",
		"timezone": "UTC",
		"working_hours": {
			"monday": {"open": "09:00", "close": "22:00"},
			"saturday": {"open": "10:00", "close": "23:00"}
		},
		"base_delivery_fee": 25,
		"payment_methods": ["Efectivo"]
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "Taquería El Buen Sabor" {
		t.Errorf("name = %q", p.Name)
	}
	if got := p.DeliveryFee(""); got != 25 {
		t.Errorf("delivery fee = %v, want 25", got)
	}
}

func TestIsOpenRespectsSchedule(t *testing.T) {
	p := &Profile{
		Timezone: "UTC",
		WorkingHours: map[string]Hours{
			"monday": {Open: "09:00", Close: "22:00"},
		},
	}
	if _, err := p.finish(); err != nil {
		t.Fatal(err)
	}

	// 2026-08-24 is a Monday.
	monNoon := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	monLate := time.Date(2026, 8, 24, 23, 30, 0, 0, time.UTC)
	tueNoon := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	if !p.IsOpen(monNoon) {
		t.Error("should be open Monday noon")
	}
	if p.IsOpen(monLate) {
		t.Error("should be closed Monday 23:30")
	}
	if p.IsOpen(tueNoon) {
		t.Error("should be closed on a day with no hours")
	}
}

func TestHoursMessage(t *testing.T) {
	p := &Profile{
		Timezone: "UTC",
		WorkingHours: map[string]Hours{
			"sunday": {Open: "11:00", Close: "18:00"},
			"monday": {Open: "09:00", Close: "22:00"},
		},
	}
	if _, err := p.finish(); err != nil {
		t.Fatal(err)
	}

	msg := p.HoursMessage()
	if !strings.Contains(msg, "Lunes: 09:00 - 22:00") {
		t.Errorf("missing Monday line: %q", msg)
	}
	// Weekday order is fixed regardless of map iteration.
	if strings.Index(msg, "Lunes") > strings.Index(msg, "Domingo") {
		t.Error("Monday should come before Sunday")
	}
}

func TestDeliveryFeeZones(t *testing.T) {
	p := &Profile{
		BaseDeliveryFee: 30,
		Zones: []Zone{
			{Name: "Centro", DeliveryFee: 20},
			{Name: "Norte", DeliveryFee: 40},
		},
	}
	if got := p.DeliveryFee("norte"); got != 40 {
		t.Errorf("zone fee = %v, want 40", got)
	}
	if got := p.DeliveryFee("desconocida"); got != 20 {
		t.Errorf("unknown zone fee = %v, want first zone 20", got)
	}
	p.Zones = nil
	if got := p.DeliveryFee(""); got != 30 {
		t.Errorf("base fee = %v, want 30", got)
	}
}
