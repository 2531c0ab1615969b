package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"bot-pedidos/internal/util"
)

// Entities are the structured values spotted inside free text.
type Entities struct {
	Phone      string
	Email      string
	Amounts    []string
	Numbers    []int
	TicketID   string
	HasAddress bool
}

var (
	phoneRe  = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{4,9}`)
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	amountRe = regexp.MustCompile(`\$\s?\d+(?:[.,]\d{2})?`)
	numberRe = regexp.MustCompile(`\b\d+\b`)
	ticketRe = regexp.MustCompile(`(?i)\b(?:TICKET|CASO|REQ)[-_]?\d+[-_]?[A-Z0-9]*\b`)
)

var addressKeywords = []string{
	"calle", "avenida", "av.", "jiron", "jr.", "pasaje",
	"mz.", "lote", "casa", "dpto", "depto", "piso", "colonia", "#",
}

// ExtractEntities pulls phones, emails, amounts, numbers, ticket references
// and address hints from a message.
func ExtractEntities(text string) Entities {
	var e Entities

	if m := phoneRe.FindString(text); m != "" {
		e.Phone = strings.TrimSpace(m)
	}
	if m := emailRe.FindString(text); m != "" {
		e.Email = m
	}
	e.Amounts = amountRe.FindAllString(text, -1)
	for _, n := range numberRe.FindAllString(text, -1) {
		if v, err := strconv.Atoi(n); err == nil {
			e.Numbers = append(e.Numbers, v)
		}
	}
	if m := ticketRe.FindString(text); m != "" {
		e.TicketID = m
	}

	folded := util.Normalize(text)
	for _, kw := range addressKeywords {
		if strings.Contains(folded, kw) {
			e.HasAddress = true
			break
		}
	}
	return e
}

// ExtractAddress returns the cleaned message when it plausibly contains a
// delivery address, or empty when it does not.
func ExtractAddress(text string) string {
	clean := util.Sanitize(text)
	folded := util.Normalize(clean)
	for _, kw := range addressKeywords {
		if strings.Contains(folded, kw) {
			return clean
		}
	}
	// Long free text with no keyword still passes; short text does not.
	if len([]rune(clean)) > 10 {
		return clean
	}
	return ""
}
