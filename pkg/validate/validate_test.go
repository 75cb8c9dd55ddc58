package validate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{name: "valid visa number", number: "4561261212345467", want: true},
		{name: "failed luhn check", number: "4561261212345464", want: false},
		{name: "not digits", number: "not-a-card", want: false},
		{name: "empty", number: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCardNumber(tt.number))
		})
	}
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID(uuid.NewString()))
	assert.False(t, IsID("42"))
	assert.False(t, IsID(""))
}
