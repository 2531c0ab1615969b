package business

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Hours is an open and close time in "15:04" form for one weekday.
type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Zone maps a delivery area to its fee.
type Zone struct {
	Name        string  `json:"name"`
	DeliveryFee float64 `json:"delivery_fee"`
}

// Profile holds the business configuration loaded from JSON: identity,
// working hours, delivery zones and accepted payment methods.
type Profile struct {
	Name            string           `json:"name"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	Timezone        string           `json:"timezone"`
	ClosedMessage   string           `json:"closed_message"`
	WorkingHours    map[string]Hours `json:"working_hours"`
	Zones           []Zone           `json:"zones"`
	BaseDeliveryFee float64          `json:"base_delivery_fee"`
	PaymentMethods  []string         `json:"payment_methods"`

	loc *time.Location
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

var weekdaySpanish = map[string]string{
	"monday":    "Lunes",
	"tuesday":   "Martes",
	"wednesday": "Miércoles",
	"thursday":  "Jueves",
	"friday":    "Viernes",
	"saturday":  "Sábado",
	"sunday":    "Domingo",
}

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Load reads the business profile from path. A missing file yields the
// default profile so the bot can run without configuration.
func Load(path string, logger *slog.Logger) (*Profile, error) {
	p := defaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("business config not found, using defaults", "path", path)
			return p.finish()
		}
		return nil, fmt.Errorf("read business config: %w", err)
	}

	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse business config: %w", err)
	}
	return p.finish()
}

func defaultProfile() *Profile {
	return &Profile{
		Name:            "Nuestro Negocio",
		Timezone:        "America/Mexico_City",
		ClosedMessage:   "🕐 En este momento estamos cerrados. ¡Te esperamos en nuestro horario de atención!",
		BaseDeliveryFee: 30,
		PaymentMethods:  []string{"Efectivo", "Tarjeta a la entrega", "Transferencia"},
	}
}

func (p *Profile) finish() (*Profile, error) {
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", p.Timezone, err)
	}
	p.loc = loc
	if len(p.PaymentMethods) == 0 {
		p.PaymentMethods = defaultProfile().PaymentMethods
	}
	if p.ClosedMessage == "" {
		p.ClosedMessage = defaultProfile().ClosedMessage
	}
	return p, nil
}

// IsOpen reports whether the business is open at the given instant. Without
// configured hours the business is considered always open.
func (p *Profile) IsOpen(now time.Time) bool {
	if len(p.WorkingHours) == 0 {
		return true
	}

	local := now.In(p.loc)
	hours, ok := p.WorkingHours[weekdayNames[local.Weekday()]]
	if !ok {
		return false
	}

	open, err1 := time.Parse("15:04", hours.Open)
	close, err2 := time.Parse("15:04", hours.Close)
	if err1 != nil || err2 != nil {
		return true
	}

	minute := local.Hour()*60 + local.Minute()
	openMin := open.Hour()*60 + open.Minute()
	closeMin := close.Hour()*60 + close.Minute()
	return minute >= openMin && minute <= closeMin
}

// HoursMessage renders the weekly schedule in Spanish.
func (p *Profile) HoursMessage() string {
	if len(p.WorkingHours) == 0 {
		return "Consulta nuestros horarios de atención."
	}

	var b strings.Builder
	b.WriteString("📅 *Horarios de atención:*\n\n")
	for _, day := range weekdayOrder {
		hours, ok := p.WorkingHours[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s - %s\n", weekdaySpanish[day], hours.Open, hours.Close)
	}
	return b.String()
}

// DeliveryFee returns the fee for a zone, or the base fee when the zone is
// unknown or empty.
func (p *Profile) DeliveryFee(zone string) float64 {
	if len(p.Zones) == 0 {
		return p.BaseDeliveryFee
	}
	if zone != "" {
		for _, z := range p.Zones {
			if strings.EqualFold(z.Name, zone) {
				return z.DeliveryFee
			}
		}
	}
	return p.Zones[0].DeliveryFee
}
