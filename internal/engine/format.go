package engine

import (
	"math"
	"strconv"
	"strings"
)

// formatINR renders an amount as digit-grouped rupees, e.g. 100000 -> "100,000".
func formatINR(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// formatINRf rounds a fractional rupee amount to the nearest rupee before
// grouping. Scholarship math can produce fractions; no one is quoted paise.
func formatINRf(amount float64) string {
	return formatINR(int(math.Round(amount)))
}

// titleWord upper-cases the first rune of each underscore-separated word,
// e.g. "exam_fee" -> "Exam Fee". Used for fee-breakdown labels.
func titleWord(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
