package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Segfaults and You: When Raw Pointers Go Wrong",
			"segfaults-and-you-when-raw-pointers-go-wrong"},
		{"Why are DB Admins Always Shouting?",
			"why-are-db-admins-always-shouting"},
		{"Converting to Rust from C: It's as Easy as 1, 2, 3!",
			"converting-to-rust-from-c-its-as-easy-as-1-2-3"},
		{"Doctests are the Bee's Knees",
			"doctests-are-the-bees-knees"},
		{"  leading   and trailing   ", "leading-and-trailing"},
		{"ALL CAPS", "all-caps"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), "title %q", tc.title)
	}
}
