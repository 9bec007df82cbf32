package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Extraction patterns. These are load-bearing for behavioral compatibility
// with the deployed helpline; do not tweak them without migrating stored
// profiles.
var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\+91[\s-]?)?[6-9]\d{9}`),
		regexp.MustCompile(`\b\d{10}\b`),
	}
	phoneSeparators = regexp.MustCompile(`[\s-]`)

	percentagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+\.?\d*)\s*%`),
		regexp.MustCompile(`(\d+\.?\d*)\s*percent`),
		regexp.MustCompile(`scored\s+(\d+\.?\d*)`),
		regexp.MustCompile(`got\s+(\d+\.?\d*)`),
		regexp.MustCompile(`(\d+\.?\d*)\s*in\s+12th`),
	}
)

// Self-introduction prefixes stripped before taking the first token as the
// user's name. Order matters: longer phrases first.
var namePrefixes = []string{"my name is", "i am", "i'm", "this is", "call me", "it's", "its"}

// ExtractName pulls a plausible first name out of a raw user message.
// It never fails; an empty message yields the fixed placeholder "Friend".
func ExtractName(message string) string {
	message = strings.TrimSpace(message)
	lower := strings.ToLower(message)

	for _, prefix := range namePrefixes {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(message[len(prefix):])
			if fields := strings.Fields(rest); len(fields) > 0 {
				return capitalize(fields[0])
			}
			break
		}
	}

	if fields := strings.Fields(message); len(fields) > 0 {
		return capitalize(fields[0])
	}
	return "Friend"
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ExtractEmail returns the first email address in text, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first Indian mobile number in text normalized to
// its bare 10 digits, or "". Separators and a 91 country-code prefix are
// stripped before validation.
func ExtractPhone(text string) string {
	for _, pattern := range phonePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		phone := phoneSeparators.ReplaceAllString(match, "")
		phone = strings.TrimPrefix(phone, "+")
		switch {
		case len(phone) == 10 && phone[0] >= '6' && phone[0] <= '9':
			return phone
		case len(phone) == 12 && strings.HasPrefix(phone, "91"):
			return phone[2:]
		}
	}
	return ""
}

// ExtractPercentage returns the first percentage score mentioned in text and
// whether one was found. Recognized shapes: "85%", "85 percent", "scored 85",
// "got 85", "85 in 12th".
func ExtractPercentage(text string) (float64, bool) {
	for _, pattern := range percentagePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
