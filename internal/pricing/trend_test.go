package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		previous float64
		want     string
	}{
		{"higher price is up", 78.40, 76.12, TrendUp},
		{"lower price is down", 74.90, 76.12, TrendDown},
		{"equal price is flat", 76.12, 76.12, TrendFlat},
		{"tiny increase is up", 76.1201, 76.12, TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeTrend(tt.price, tt.previous))
		})
	}
}

func TestPercentChange(t *testing.T) {
	assert.InDelta(t, 10.0, PercentChange(110, 100), 0.0001)
	assert.InDelta(t, -25.0, PercentChange(75, 100), 0.0001)
	assert.Equal(t, 0.0, PercentChange(75, 0))
}
