package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_Format(t *testing.T) {
	r := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	a, b := NewID(), NewID()
	assert.Regexp(t, r, a)
	assert.NotEqual(t, a, b)
}

func TestFoldText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pão Francês", "pao frances"},
		{"AÇAÍ", "acai"},
		{"pão", "pao"},
		{"Leite Integral", "leite integral"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldText(tt.in))
		})
	}
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 10,50", FormatBRL(10.5))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
}
