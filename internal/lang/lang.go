// Package lang defines translation directions and script-based language
// detection for the English–Arabic pair.
package lang

import (
	"fmt"
	"strings"
	"unicode"
)

// Language is an ISO 639-1 language code handled by the service.
type Language string

// Supported languages.
const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Direction is a source→target language pair for a translation request.
type Direction string

// Supported translation directions.
const (
	EnglishToArabic Direction = "en2ar"
	ArabicToEnglish Direction = "ar2en"
)

// arabicThreshold is the minimum ratio of Arabic-script runes (over all
// non-whitespace runes) for a text to be classified as Arabic.
const arabicThreshold = 0.3

// ParseDirection normalizes and validates a direction string.
// Accepts "en2ar" and "ar2en" in any case; everything else returns
// ErrUnsupportedDirection.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case EnglishToArabic:
		return EnglishToArabic, nil
	case ArabicToEnglish:
		return ArabicToEnglish, nil
	default:
		return "", fmt.Errorf("direction %q (use 'en2ar' or 'ar2en'): %w", s, ErrUnsupportedDirection)
	}
}

// Valid reports whether d is one of the supported directions.
func (d Direction) Valid() bool {
	return d == EnglishToArabic || d == ArabicToEnglish
}

// Source returns the source language of the pair.
func (d Direction) Source() Language {
	if d == ArabicToEnglish {
		return Arabic
	}
	return English
}

// Target returns the target language of the pair.
func (d Direction) Target() Language {
	if d == ArabicToEnglish {
		return English
	}
	return Arabic
}

func (d Direction) String() string {
	return string(d)
}

// Detect classifies a text as English or Arabic by script: if more than 30%
// of its non-whitespace runes are Arabic-script, the text is Arabic.
// Empty or all-whitespace input defaults to English.
func Detect(text string) Language {
	var arabic, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isArabicRune(r) {
			arabic++
		}
	}

	if total == 0 {
		return English
	}

	if float64(arabic)/float64(total) > arabicThreshold {
		return Arabic
	}
	return English
}

// DetectDirection picks the translation direction for a text whose caller
// did not specify one: Arabic input translates to English, anything else to
// Arabic.
func DetectDirection(text string) Direction {
	if Detect(text) == Arabic {
		return ArabicToEnglish
	}
	return EnglishToArabic
}

// Resolve parses an explicit direction, or detects one from the text when
// the caller left the direction empty.
func Resolve(text, direction string) (Direction, error) {
	if strings.TrimSpace(direction) == "" {
		return DetectDirection(text), nil
	}
	return ParseDirection(direction)
}

// isArabicRune reports whether r belongs to one of the Arabic script blocks:
// Arabic, Arabic Supplement, Arabic Extended-A, and both Presentation Forms.
func isArabicRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0x08A0 && r <= 0x08FF:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}
