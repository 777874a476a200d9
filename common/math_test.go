package common

import "testing"

func TestApproach(t *testing.T) {
	tests := []struct {
		v, target, step, want float64
	}{
		{0, 10, 3, 3},
		{9, 10, 3, 10},
		{10, 0, 4, 6},
		{1, 0, 4, 0},
	}
	for _, tc := range tests {
		if got := Approach(tc.v, tc.target, tc.step); got != tc.want {
			t.Fatalf("Approach(%v,%v,%v) = %v, want %v", tc.v, tc.target, tc.step, got, tc.want)
		}
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !a.Intersects(Rect{X: 5, Y: 5, W: 10, H: 10}) {
		t.Fatalf("expected overlap")
	}
	if a.Intersects(Rect{X: 10, Y: 0, W: 5, H: 5}) {
		t.Fatalf("touching edges must not overlap")
	}
	if !a.Contains(10, 10) {
		t.Fatalf("Contains should include the far corner")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(12, 0, 9); got != 9 {
		t.Fatalf("Clamp int = %d, want 9", got)
	}
	if got := Clamp(-0.5, 0.0, 1.0); got != 0 {
		t.Fatalf("Clamp float = %v, want 0", got)
	}
}
