package dto

import (
	"strings"
	"unicode"
)

// EmotionName upper-cases the first letter and lower-cases the rest ("sAD" -> "Sad").
func EmotionName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
