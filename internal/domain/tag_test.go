package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "#ABC123", "#ABC123"},
		{"missing marker", "ABC123", "#ABC123"},
		{"lowercase", "abc123", "#ABC123"},
		{"surrounding whitespace", "  #ABC123 ", "#ABC123"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.in))
		})
	}
}

func TestNormalizeTagIdempotent(t *testing.T) {
	for _, in := range []string{"#ABC123", "ABC123", "abc123"} {
		once := NormalizeTag(in)
		assert.Equal(t, once, NormalizeTag(once))
	}
}

func TestEncodeTag(t *testing.T) {
	assert.Equal(t, "%23ABC123", EncodeTag("#ABC123"))
	assert.Equal(t, "%23ABC123", EncodeTag("abc123"))
}
