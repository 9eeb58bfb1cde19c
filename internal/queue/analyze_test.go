package queue

import (
	"math"
	"testing"
)

func TestRiskWeight(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  float64
	}{
		{name: "zero risk contributes no weight", level: 0, want: 0},
		{name: "single category", level: 40, want: 0.4},
		{name: "amplified score", level: 55, want: 0.55},
		{name: "clamped maximum", level: 100, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := riskWeight(tt.level)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("riskWeight(%d) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
