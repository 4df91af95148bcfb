package config

import "testing"

func TestNormalizePaginationLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero falls back to default", 0, 10},
		{"negative falls back to default", -5, 10},
		{"in range passes through", 25, 25},
		{"above cap is clamped", DefaultPaginationLimit + 1, DefaultPaginationLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePaginationLimit(tt.limit); got != tt.want {
				t.Errorf("NormalizePaginationLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestNormalizeOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"negative is floored to zero", -1, 0},
		{"zero passes through", 0, 0},
		{"positive passes through", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeOffset(tt.offset); got != tt.want {
				t.Errorf("NormalizeOffset(%d) = %d, want %d", tt.offset, got, tt.want)
			}
		})
	}
}
