package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"иван петров", "Иван Петров"},
		{"  иВАН \t ПЕТРОВ  ", "Иван Петров"},
		{"анна мария смирнова", "Анна Мария Смирнова"},
		{"john smith", "John Smith"},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}
