package util

import "strings"

var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Normalize lowercases the text and folds Spanish accents so that rule
// matching treats "envío" and "envio" as the same word.
func Normalize(text string) string {
	return accentFolder.Replace(strings.ToLower(strings.TrimSpace(text)))
}

// Tokenize splits normalized text into matchable tokens, dropping
// punctuation and words too short to carry meaning.
func Tokenize(text string) []string {
	text = Normalize(text)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 || isNumeric(f) {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Sanitize collapses whitespace and strips characters that have no place
// in a chat message before it reaches the state machine.
func Sanitize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}':
			return -1
		}
		return r
	}, text)
}
