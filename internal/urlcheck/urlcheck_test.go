package urlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	cases := map[string]bool{
		"https://shop.example.com":       true,
		"https://shop.example.com/":      true,
		"http://localhost:8080":          true,
		"https://exampledomain.com/shop": true,
		"":                               false,
		"shop.example.com":               false,
		"ftp://shop.example.com":         false,
		"https://":                       false,
		"not a url":                      false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsValidURL(in), "IsValidURL(%q)", in)
	}
}
