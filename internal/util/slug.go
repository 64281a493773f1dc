package util

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify converts a course title into a URL-safe slug. Runs of
// non-alphanumeric characters collapse into single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return "course"
	}
	return slug
}

// SlugWithSuffix appends a numeric suffix used to resolve slug collisions.
func SlugWithSuffix(slug string, n int) string {
	return fmt.Sprintf("%s-%d", slug, n)
}

// SuggestTitles proposes alternative titles for a taken one, skipping
// candidates the caller reports as taken.
func SuggestTitles(title string, count int, taken func(string) bool) []string {
	suggestions := make([]string, 0, count)
	for n := 2; len(suggestions) < count && n < 100; n++ {
		candidate := fmt.Sprintf("%s %d", title, n)
		if taken != nil && taken(candidate) {
			continue
		}
		suggestions = append(suggestions, candidate)
	}
	return suggestions
}
