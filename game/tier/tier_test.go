package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		percentage int
		want       Level
	}{
		{100, Success},
		{80, Success},
		{79, Warning},
		{50, Warning},
		{49, Error},
		{0, Error},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, For(tt.percentage), "percentage %d", tt.percentage)
	}
}
