package geom

import (
	"errors"
	"math"
	"testing"
)

func TestRegularPolygon(t *testing.T) {
	pts, err := RegularPolygon(Pt(0, 0), 10, 6, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 6 {
		t.Fatalf("got %d vertices, want 6", len(pts))
	}
	for _, p := range pts {
		if !almostEqual(Distance(p, Pt(0, 0)), 10) {
			t.Errorf("vertex %v not on circumcircle", p)
		}
	}
	// Hexagon area = 3√3/2 · r².
	want := 3 * math.Sqrt(3) / 2 * 100
	if got := PolygonArea(pts); !almostEqual(got, want) {
		t.Errorf("area = %v, want %v", got, want)
	}

	if _, err := RegularPolygon(Pt(0, 0), 10, 2, 0); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("2 sides: err = %v, want ErrInvalidGeometry", err)
	}
}

func TestEllipsePoints(t *testing.T) {
	pts := EllipsePoints(Pt(5, 5), 10, 4, 90, 64)
	if len(pts) != 64 {
		t.Fatalf("got %d points, want 64", len(pts))
	}
	// Rotated 90°: the major axis now lies along Y.
	if !pts[0].Equal(Pt(5, 15), testEps) {
		t.Errorf("first point = %v, want (5,15)", pts[0])
	}
}

func TestArchimedeanSpiral(t *testing.T) {
	pts, err := ArchimedeanSpiral(Pt(0, 0), 0, 20, 2, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 65 {
		t.Fatalf("got %d points, want 65", len(pts))
	}
	if !pts[0].Equal(Pt(0, 0), testEps) {
		t.Errorf("start = %v, want origin", pts[0])
	}
	if !pts[64].Equal(Pt(20, 0), testEps) {
		t.Errorf("end = %v, want (20,0) after whole turns", pts[64])
	}
	for i := 1; i < len(pts); i++ {
		if Distance(pts[i], Pt(0, 0)) < Distance(pts[i-1], Pt(0, 0))-testEps {
			t.Fatalf("radius shrinks at sample %d", i)
		}
	}

	if _, err := ArchimedeanSpiral(Pt(0, 0), 5, 5, 1, 32); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("equal radii: err = %v, want ErrInvalidGeometry", err)
	}
}

func TestSpringProfile(t *testing.T) {
	pts, err := SpringProfile(Pt(0, 0), Pt(100, 0), 5, 10, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 81 {
		t.Fatalf("got %d points, want 81", len(pts))
	}
	if !pts[0].Equal(Pt(0, 0), testEps) || !pts[80].Equal(Pt(100, 0), testEps) {
		t.Errorf("ends = %v, %v", pts[0], pts[80])
	}
	for _, p := range pts {
		if math.Abs(p.Y) > 5+testEps {
			t.Fatalf("point %v exceeds half the diameter", p)
		}
	}

	if _, err := SpringProfile(Pt(1, 1), Pt(1, 1), 5, 10, 16); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("zero axis: err = %v, want ErrInvalidGeometry", err)
	}
}

func TestGearProfile(t *testing.T) {
	spec := GearSpec{Teeth: 20, Module: 2, PressureAngleDeg: 20, FlankSegments: 4}
	pts, err := GearProfile(Pt(0, 0), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Per tooth: root, rising flank, falling flank, root.
	wantLen := spec.Teeth*(2+2*(spec.FlankSegments+1)) + 1
	if len(pts) != wantLen {
		t.Fatalf("got %d points, want %d", len(pts), wantLen)
	}
	if pts[0] != pts[len(pts)-1] {
		t.Error("profile is not closed")
	}

	rp := spec.PitchRadius()
	ra := rp + spec.Module
	rf := rp - 1.25*spec.Module
	for _, p := range pts {
		r := Distance(p, Pt(0, 0))
		if r > ra+testEps || r < rf-testEps {
			t.Fatalf("point %v radius %v outside [%v, %v]", p, r, rf, ra)
		}
	}

	if _, err := GearProfile(Pt(0, 0), GearSpec{Teeth: 20, Module: 0, PressureAngleDeg: 20}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("zero module: err = %v, want ErrInvalidGeometry", err)
	}
}
