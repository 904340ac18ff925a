package types

import (
	"math"
	"testing"
)

func TestCalculateDistance(t *testing.T) {
	// Langham Place (Mong Kok) to Cityplaza (Tai Koo)
	d := CalculateDistance(22.3183, 114.1687, 22.2865, 114.2170)
	if d < 5.5 || d > 6.5 {
		t.Errorf("CalculateDistance = %.3f km, want about 6 km", d)
	}
	if got := CalculateDistance(22.3, 114.1, 22.3, 114.1); got != 0 {
		t.Errorf("distance to self = %f", got)
	}
}

func TestBoundingBoxAround(t *testing.T) {
	box := BoundingBoxAround(22.3, 114.17, 2)
	if box.MinLat >= 22.3 || box.MaxLat <= 22.3 || box.MinLng >= 114.17 || box.MaxLng <= 114.17 {
		t.Fatalf("box %+v does not contain its centre", box)
	}
	// a point exactly radius km north must sit on the edge of the box
	north := CalculateDistance(22.3, 114.17, box.MaxLat, 114.17)
	if math.Abs(north-2) > 0.01 {
		t.Errorf("north edge is %.4f km away, want 2", north)
	}
}

func TestHasCoordinates(t *testing.T) {
	if HasCoordinates(0, 0) {
		t.Error("0,0 should be treated as missing")
	}
	if !HasCoordinates(22.3, 114.1) {
		t.Error("real coordinates reported as missing")
	}
}
