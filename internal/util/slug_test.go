package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Go for Beginners", "go-for-beginners"},
		{"punctuation collapses", "C++ & Rust: A Comparison!", "c-rust-a-comparison"},
		{"leading and trailing junk", "  ...Intro...  ", "intro"},
		{"digits kept", "Top 10 Patterns", "top-10-patterns"},
		{"only junk falls back", "!!!", "course"},
		{"empty falls back", "", "course"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugWithSuffix(t *testing.T) {
	assert.Equal(t, "go-basics-2", SlugWithSuffix("go-basics", 2))
}

func TestSuggestTitles(t *testing.T) {
	t.Run("first candidates free", func(t *testing.T) {
		got := SuggestTitles("Go Basics", 3, func(string) bool { return false })
		assert.Equal(t, []string{"Go Basics 2", "Go Basics 3", "Go Basics 4"}, got)
	})

	t.Run("skips taken candidates", func(t *testing.T) {
		taken := map[string]bool{"Go Basics 2": true, "Go Basics 4": true}
		got := SuggestTitles("Go Basics", 3, func(c string) bool { return taken[c] })
		assert.Equal(t, []string{"Go Basics 3", "Go Basics 5", "Go Basics 6"}, got)
	})

	t.Run("nil predicate", func(t *testing.T) {
		got := SuggestTitles("Go Basics", 2, nil)
		assert.Len(t, got, 2)
	})
}
