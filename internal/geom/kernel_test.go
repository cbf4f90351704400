package geom

import (
	"errors"
	"math"
	"testing"
)

const testEps = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= testEps
}

func TestDistance(t *testing.T) {
	if got := Distance(Pt(0, 0), Pt(3, 4)); !almostEqual(got, 5) {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestSegmentProjection(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		wantP Point
		wantT float64
	}{
		{"inside", Pt(5, 3), Pt(5, 0), 0.5},
		{"before start clamps", Pt(-4, 2), Pt(0, 0), 0},
		{"past end clamps", Pt(20, -1), Pt(10, 0), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentProjection(tt.p, Pt(0, 0), Pt(10, 0))
			if !got.Point.Equal(tt.wantP, testEps) || !almostEqual(got.T, tt.wantT) {
				t.Errorf("SegmentProjection() = %+v, want point %v t %v", got, tt.wantP, tt.wantT)
			}
		})
	}
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Point
		wantOK         bool
		want           Point
	}{
		{"cross", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true, Pt(5, 5)},
		{"parallel", Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1), false, Point{}},
		{"outside range", Pt(0, 0), Pt(1, 1), Pt(0, 10), Pt(10, 0), false, Point{}},
		{"touching endpoint", Pt(0, 0), Pt(5, 0), Pt(5, -5), Pt(5, 5), true, Pt(5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a1, tt.a2, tt.b1, tt.b2)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want, testEps) {
				t.Errorf("point = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineCircleIntersection(t *testing.T) {
	got := LineCircleIntersection(Pt(-10, 0), Pt(10, 0), Pt(0, 0), 5)
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2", len(got))
	}
	if !got[0].Equal(Pt(-5, 0), testEps) || !got[1].Equal(Pt(5, 0), testEps) {
		t.Errorf("points = %v", got)
	}

	if got := LineCircleIntersection(Pt(-10, 5), Pt(10, 5), Pt(0, 0), 5); len(got) != 1 {
		t.Errorf("tangent: got %d points, want 1", len(got))
	}
	if got := LineCircleIntersection(Pt(0, 0), Pt(1, 0), Pt(0, 0), 5); len(got) != 0 {
		t.Errorf("segment inside circle: got %v, want none", got)
	}
}

func TestCircleCircleIntersection(t *testing.T) {
	tests := []struct {
		name string
		c2   Point
		r2   float64
		want int
	}{
		{"two points", Pt(8, 0), 5, 2},
		{"external tangent", Pt(10, 0), 5, 1},
		{"apart", Pt(20, 0), 5, 0},
		{"contained", Pt(1, 0), 1, 0},
		{"concentric", Pt(0, 0), 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CircleCircleIntersection(Pt(0, 0), 5, tt.c2, tt.r2)
			if len(got) != tt.want {
				t.Fatalf("got %d points, want %d", len(got), tt.want)
			}
			for _, p := range got {
				if !almostEqual(Distance(p, Pt(0, 0)), 5) || !almostEqual(Distance(p, tt.c2), tt.r2) {
					t.Errorf("point %v is not on both circles", p)
				}
			}
		})
	}
}

func TestPolygonAreaAndPerimeter(t *testing.T) {
	square := []Point{Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)}
	if got := PolygonArea(square); !almostEqual(got, 100) {
		t.Errorf("ccw area = %v, want 100", got)
	}
	reversed := []Point{Pt(0, 10), Pt(10, 10), Pt(10, 0), Pt(0, 0)}
	if got := PolygonArea(reversed); !almostEqual(got, -100) {
		t.Errorf("cw area = %v, want -100", got)
	}
	if got := PolygonPerimeter(square); !almostEqual(got, 30) {
		t.Errorf("open perimeter = %v, want 30", got)
	}
	closed := append(append([]Point{}, square...), square[0])
	if got := PolygonPerimeter(closed); !almostEqual(got, 40) {
		t.Errorf("closed perimeter = %v, want 40", got)
	}
}

func TestCircleFrom3Points(t *testing.T) {
	c, r, err := CircleFrom3Points(Pt(5, 0), Pt(0, 5), Pt(-5, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Equal(Pt(0, 0), testEps) || !almostEqual(r, 5) {
		t.Errorf("circle = %v r=%v, want origin r=5", c, r)
	}

	_, _, err = CircleFrom3Points(Pt(0, 0), Pt(50, 0), Pt(100, 0))
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("collinear: err = %v, want ErrInvalidGeometry", err)
	}
}

func TestArcThrough3PointsDirection(t *testing.T) {
	tests := []struct {
		name          string
		p1, p2, p3    Point
		wantClockwise bool
		wantStart     float64
		wantEnd       float64
	}{
		{"counter-clockwise over the top", Pt(10, 0), Pt(0, 10), Pt(-10, 0), false, 0, 180},
		{"clockwise under the bottom", Pt(10, 0), Pt(0, -10), Pt(-10, 0), true, 0, 180},
		{"clockwise through the right", Pt(0, 10), Polar(Pt(0, 0), 10, Radians(45)), Pt(0, -10), true, 90, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, start, end, cw, err := ArcThrough3Points(tt.p1, tt.p2, tt.p3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cw != tt.wantClockwise {
				t.Errorf("clockwise = %v, want %v", cw, tt.wantClockwise)
			}
			if !almostEqual(start, tt.wantStart) || !almostEqual(end, tt.wantEnd) {
				t.Errorf("angles = %v..%v, want %v..%v", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAngleOnArc(t *testing.T) {
	if !AngleOnArc(45, 0, 90, false) {
		t.Error("45 should lie on ccw 0..90")
	}
	if AngleOnArc(180, 0, 90, false) {
		t.Error("180 should not lie on ccw 0..90")
	}
	if !AngleOnArc(180, 0, 90, true) {
		t.Error("180 should lie on cw 0..90")
	}
	if !AngleOnArc(10, 350, 20, false) {
		t.Error("10 should lie on ccw 350..20")
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := map[float64]float64{-10: 350, 360: 0, 725: 5, 0: 0, -360: 0}
	for in, want := range tests {
		if got := NormalizeDegrees(in); !almostEqual(got, want) {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestReflect(t *testing.T) {
	got, err := Reflect(Pt(3, 1), Pt(0, 0), Pt(1, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Pt(1, 3), testEps) {
		t.Errorf("Reflect() = %v, want (1,3)", got)
	}
	if _, err := Reflect(Pt(3, 1), Pt(2, 2), Pt(2, 2)); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("zero axis: err = %v, want ErrInvalidGeometry", err)
	}
}

func TestRotateAbout(t *testing.T) {
	got := RotateAbout(Pt(100, 0), Pt(0, 0), 90)
	if !got.Equal(Pt(0, 100), testEps) {
		t.Errorf("RotateAbout() = %v, want (0,100)", got)
	}
	back := RotateAbout(RotateAbout(Pt(3, 7), Pt(1, 1), 33), Pt(1, 1), -33)
	if !back.Equal(Pt(3, 7), testEps) {
		t.Errorf("round trip = %v, want (3,7)", back)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := RotateAboutMatrix(Pt(4, -2), 30).Multiply(Translate(5, 6))
	if !m.Multiply(m.Invert()).IsIdentity() {
		t.Error("m * m^-1 should be identity")
	}
	r, _ := ReflectMatrix(Pt(0, 0), Pt(1, 2))
	if r.Determinant() >= 0 {
		t.Errorf("reflection determinant = %v, want negative", r.Determinant())
	}
}
