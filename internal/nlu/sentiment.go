package nlu

import (
	"strings"
	"unicode"

	"bot-pedidos/internal/util"
)

// Sentiment summarizes the emotional tone of a message.
type Sentiment struct {
	IsNegative   bool
	IsFrustrated bool
	NeedsHuman   bool
}

var positiveWords = []string{
	"bueno", "excelente", "genial", "perfecto", "gracias", "feliz",
	"contento", "increible", "fantastico", "rapido",
}

var negativeWords = []string{
	"malo", "terrible", "pesimo", "horrible", "nunca", "problema",
	"queja", "reclamo", "demora", "tardo", "lento", "fallo",
}

var frustrationWords = []string{
	"malisimo", "pesimo", "horrible", "terrible", "enojado",
	"molesto", "furioso", "harto", "cansado", "ridiculo",
	"estafa", "robo", "ladrones", "incompetentes", "inaceptable",
	"demanda", "abogado", "reclamo", "queja", "denuncia",
}

// AnalyzeSentiment flags negative, frustrated and escalation-worthy
// messages using word lists, shouting detection and repeated punctuation.
func AnalyzeSentiment(text string) Sentiment {
	folded := util.Normalize(text)

	var posCount, negCount int
	for _, w := range positiveWords {
		if strings.Contains(folded, w) {
			posCount++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(folded, w) {
			negCount++
		}
	}

	var hasFrustrationWord bool
	for _, w := range frustrationWords {
		if strings.Contains(folded, w) {
			hasFrustrationWord = true
			break
		}
	}

	runes := []rune(text)
	var upper, letters int
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	isShouting := letters > 0 && len(runes) > 10 && float64(upper)/float64(letters) > 0.5

	hasHeavyPunctuation := strings.Contains(text, "!!!") || strings.Contains(text, "???")

	s := Sentiment{IsNegative: negCount > posCount}
	s.IsFrustrated = hasFrustrationWord || isShouting || (s.IsNegative && hasHeavyPunctuation)
	s.NeedsHuman = s.IsFrustrated && (hasFrustrationWord || negCount >= 2)
	return s
}

// EmpatheticPrefix returns the apology that leads a reply when the message
// carried a negative tone. Empty for neutral messages.
func EmpatheticPrefix(s Sentiment) string {
	switch {
	case s.NeedsHuman:
		return "Lamento mucho los inconvenientes. Voy a escalar su caso a un agente humano. "
	case s.IsFrustrated:
		return "Entiendo su frustración y lamento los inconvenientes. "
	case s.IsNegative:
		return "Lamento que esté teniendo problemas. "
	default:
		return ""
	}
}
