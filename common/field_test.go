package common

import "testing"

func TestHorizontalRange(t *testing.T) {
	f := DefaultField()
	lo, hi := f.HorizontalRange(20)
	if lo != 50 || hi != 570 {
		t.Fatalf("expected [50, 570], got [%v, %v]", lo, hi)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -1, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"inverted", 3, 10, 0, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}

func TestBoundaryLabels(t *testing.T) {
	for _, l := range []string{LabelGround, LabelWall, LabelTopLine} {
		if !IsBoundaryLabel(l) {
			t.Fatalf("%q should be a boundary label", l)
		}
	}
	if IsBoundaryLabel("cherry") {
		t.Fatalf("fruit label reported as boundary")
	}
}
