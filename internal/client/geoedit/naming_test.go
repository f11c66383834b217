package geoedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSuffixes(t *testing.T) {
	titles := []string{"a", "a:1", "a:3", "b:2", "ab:5"}

	assert.Equal(t, []int{2, 4}, NextSuffixes("a", titles, 2))
	assert.Equal(t, []int{1, 3, 4}, NextSuffixes("b", titles, 3))
	assert.Equal(t, []int{1}, NextSuffixes("new", nil, 1))
	assert.Empty(t, NextSuffixes("a", titles, 0))
}

func TestBaseTitle(t *testing.T) {
	tests := map[string]string{
		"a":       "a",
		"a:3":     "a",
		"zone:12": "zone",
		"a:b":     "a:b",
		"trail:":  "trail:",
		"x:1:2":   "x:1",
		"A 12:2":  "A 12",
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseTitle(in), "BaseTitle(%q)", in)
	}
	assert.Equal(t, "a:4", WithSuffix("a", 4))
}
