package nlu

import (
	"regexp"
	"strings"
)

var nicknamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:soy|me llamo|mi nombre es)\s+(?:el\s+|la\s+|ing\.\s*|dr\.\s*|lic\.\s*)?([A-ZÁÉÍÓÚÑ][a-záéíóúñ]+)`),
	regexp.MustCompile(`(?i)^(?:hola|buenas?|buenos\s+\w+),?\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñ]+)`),
}

var nicknameStopwords = map[string]bool{
	"el": true, "la": true, "un": true, "una": true,
	"cliente": true, "usuario": true, "persona": true,
}

// ExtractNickname pulls a first name from introductions like "soy Carlos" or
// "me llamo María". Returns empty when no name is found.
func ExtractNickname(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range nicknamePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len([]rune(name)) < 2 || nicknameStopwords[strings.ToLower(name)] {
			continue
		}
		return capitalize(name)
	}
	return ""
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	first := strings.ToUpper(string(runes[0]))
	return first + string(runes[1:])
}
