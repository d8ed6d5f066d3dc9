package controllers

import "testing"

func TestAwardAmount(t *testing.T) {
	zero := 0.0
	custom := 2500.0

	tests := []struct {
		name      string
		requested *float64
		catalog   float64
		want      float64
	}{
		{"omitted defaults to catalog", nil, 10000, 10000},
		{"explicit amount wins", &custom, 10000, 2500},
		{"explicit zero stays zero", &zero, 10000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := awardAmount(tt.requested, tt.catalog); got != tt.want {
				t.Errorf("awardAmount = %v, want %v", got, tt.want)
			}
		})
	}
}
