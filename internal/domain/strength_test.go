package domain

import "testing"

func TestClampStrength(t *testing.T) {
	cases := []struct {
		in   float64
		want RemixStrength
	}{
		{-0.5, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{1.7, 1},
	}
	for _, tc := range cases {
		if got := ClampStrength(tc.in); got != tc.want {
			t.Fatalf("ClampStrength(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
