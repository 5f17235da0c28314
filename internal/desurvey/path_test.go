package desurvey

import (
	"errors"
	"math"
	"testing"

	"github.com/Loop3D/loopresources/internal/geom"
	"github.com/Loop3D/loopresources/internal/types"
)

const epsilon = 1e-9

func collarAt(x, y, z, totalDepth float64) types.Collar {
	return types.Collar{HoleID: "DH001", X: x, Y: y, Z: z, TotalDepth: totalDepth}
}

func TestBuildPathValidation(t *testing.T) {
	t.Run("empty station list", func(t *testing.T) {
		_, err := BuildPath(nil, collarAt(0, 0, 0, 100))
		if !errors.Is(err, ErrInsufficientStations) {
			t.Errorf("expected ErrInsufficientStations, got %v", err)
		}
	})

	t.Run("non-monotonic depths", func(t *testing.T) {
		stations := []Station{
			{Depth: 0, Dip: -math.Pi / 2},
			{Depth: 50, Dip: -math.Pi / 2},
			{Depth: 50, Dip: -math.Pi / 2},
		}
		_, err := BuildPath(stations, collarAt(0, 0, 0, 100))
		if !errors.Is(err, ErrNonMonotonicDepth) {
			t.Errorf("expected ErrNonMonotonicDepth, got %v", err)
		}
	})

	t.Run("survey not starting at zero gets a synthetic collar station", func(t *testing.T) {
		stations := []Station{
			{Depth: 10, Azimuth: 0, Dip: -math.Pi / 2},
			{Depth: 50, Azimuth: 0, Dip: -math.Pi / 2},
			{Depth: 90, Azimuth: 0, Dip: -math.Pi / 2},
		}
		p, err := BuildPath(stations, collarAt(0, 0, 100, 90))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		az, dip := p.OrientationAt(0)
		if az != 0 || dip != -math.Pi/2 {
			t.Errorf("collar orientation = (%v, %v), want first station's", az, dip)
		}
		x, y, z := p.PositionAt(0)
		if x != 0 || y != 0 || z != 100 {
			t.Errorf("collar position = (%v, %v, %v), want (0, 0, 100)", x, y, z)
		}
	})
}

// A two-station hole must be exactly collinear with the first station's
// tangent direction at every depth.
func TestTangentPathCollinearity(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.7, Dip: -1.1},
		{Depth: 120, Azimuth: 0.7, Dip: -1.1},
	}
	collar := collarAt(5000, 10000, 350, 120)
	p, err := BuildPath(stations, collar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := geom.DirectionFromAngles(0.7, -1.1)
	for _, d := range []float64{0, 1, 17.5, 60, 119.99, 120} {
		x, y, z := p.PositionAt(d)
		disp := geom.Vec3{X: x - 5000, Y: y - 10000, Z: z - 350}
		cross := disp.Cross(dir)
		if cross.Norm() > 1e-9 {
			t.Errorf("depth %v: displacement not collinear with tangent, cross norm %v", d, cross.Norm())
		}
		if math.Abs(disp.Norm()-d) > 1e-9 {
			t.Errorf("depth %v: displacement length %v, want %v", d, disp.Norm(), d)
		}
	}
}

// Minimum curvature on a straight hole must reduce to the tangent method.
func TestStraightHoleReducesToTangent(t *testing.T) {
	az, dip := 1.2, -0.9
	stations := []Station{
		{Depth: 0, Azimuth: az, Dip: dip},
		{Depth: 30, Azimuth: az, Dip: dip},
		{Depth: 75, Azimuth: az, Dip: dip},
		{Depth: 130, Azimuth: az, Dip: dip},
	}
	collar := collarAt(100, 200, 300, 130)
	p, err := BuildPath(stations, collar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := geom.DirectionFromAngles(az, dip)
	for _, d := range []float64{0, 10, 30, 55, 75, 100, 130} {
		x, y, z := p.PositionAt(d)
		want := geom.Vec3{X: 100, Y: 200, Z: 300}.Add(dir.Scale(d))
		got := geom.Vec3{X: x, Y: y, Z: z}
		if got.Sub(want).Norm() > 1e-9 {
			t.Errorf("depth %v: position %+v, want %+v", d, got, want)
		}
	}
}

// Interpolation at a station depth must reproduce the station exactly.
func TestOrientationAtKnots(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.1, Dip: -1.5},
		{Depth: 40, Azimuth: 0.3, Dip: -1.4},
		{Depth: 90, Azimuth: 0.5, Dip: -1.2},
		{Depth: 150, Azimuth: 0.45, Dip: -1.3},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range stations {
		az, dip := p.OrientationAt(s.Depth)
		if az != s.Azimuth || dip != s.Dip {
			t.Errorf("depth %v: orientation (%v, %v), want (%v, %v)", s.Depth, az, dip, s.Azimuth, s.Dip)
		}
	}
}

func TestClampPolicy(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 50, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 100, Azimuth: 0, Dip: -math.Pi / 2},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d, oor := p.Clamp(104.2); d != 100 || !oor {
		t.Errorf("Clamp(104.2) = (%v, %v), want (100, true)", d, oor)
	}
	if d, oor := p.Clamp(-3); d != 0 || !oor {
		t.Errorf("Clamp(-3) = (%v, %v), want (0, true)", d, oor)
	}
	if d, oor := p.Clamp(55); d != 55 || oor {
		t.Errorf("Clamp(55) = (%v, %v), want (55, false)", d, oor)
	}

	// Beyond-coverage queries return the boundary state.
	x1, y1, z1 := p.PositionAt(104.2)
	x2, y2, z2 := p.PositionAt(100)
	if x1 != x2 || y1 != y2 || z1 != z2 {
		t.Errorf("position beyond coverage (%v,%v,%v) != boundary position (%v,%v,%v)", x1, y1, z1, x2, y2, z2)
	}

	az, dip := p.OrientationAt(500)
	if az != 0 || dip != -math.Pi/2 {
		t.Errorf("orientation beyond coverage = (%v, %v), want last station's", az, dip)
	}
}

// A vertical hole must descend exactly one meter of elevation per meter of
// measured depth.
func TestVerticalHole(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 60, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 130, Azimuth: 0, Dip: -math.Pi / 2},
	}
	p, err := BuildPath(stations, collarAt(500, 600, 700, 130))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, y, z := p.PositionAt(100)
	if math.Abs(x-500) > epsilon || math.Abs(y-600) > epsilon || math.Abs(z-600) > epsilon {
		t.Errorf("vertical hole at 100m: (%v, %v, %v), want (500, 600, 600)", x, y, z)
	}
}

// A deviating hole's position must be continuous across segment boundaries
// and its along-path arc length must track measured depth.
func TestDeviatedHoleContinuity(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.0, Dip: -1.48},
		{Depth: 50, Azimuth: 0.1, Dip: -1.40},
		{Depth: 100, Azimuth: 0.25, Dip: -1.30},
		{Depth: 150, Azimuth: 0.4, Dip: -1.25},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 150))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Walk the path at a fine step; consecutive positions should never be
	// farther apart than the step (chord <= arc) nor suspiciously shorter.
	prevX, prevY, prevZ := p.PositionAt(0)
	const step = 0.25
	for d := step; d <= 150; d += step {
		x, y, z := p.PositionAt(d)
		chord := geom.Vec3{X: x - prevX, Y: y - prevY, Z: z - prevZ}.Norm()
		if chord > step+1e-9 {
			t.Fatalf("depth %v: chord %v exceeds step %v", d, chord, step)
		}
		if chord < step*0.99 {
			t.Fatalf("depth %v: chord %v much shorter than step %v", d, chord, step)
		}
		prevX, prevY, prevZ = x, y, z
	}
}

// The position at a segment's endpoint computed through the interior
// formula must agree with the cached station position of the next segment.
func TestInteriorMatchesStationPositions(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.0, Dip: -1.5},
		{Depth: 40, Azimuth: 0.2, Dip: -1.35},
		{Depth: 95, Azimuth: 0.5, Dip: -1.2},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 95))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range []float64{40, 95} {
		x1, y1, z1 := p.PositionAt(d)
		x2, y2, z2 := p.PositionAt(d - 1e-9)
		if math.Abs(x1-x2) > 1e-6 || math.Abs(y1-y2) > 1e-6 || math.Abs(z1-z2) > 1e-6 {
			t.Errorf("discontinuity at station depth %v: (%v,%v,%v) vs (%v,%v,%v)", d, x1, y1, z1, x2, y2, z2)
		}
	}
}

func TestAntiParallelStationsRejected(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 50, Azimuth: 0, Dip: math.Pi / 2},
		{Depth: 100, Azimuth: 0, Dip: -math.Pi / 2},
	}
	_, err := BuildPath(stations, collarAt(0, 0, 0, 100))
	if !errors.Is(err, geom.ErrDegenerateOrientation) {
		t.Errorf("expected ErrDegenerateOrientation, got %v", err)
	}
}

func TestPathExtendsToTotalDepth(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 40, Azimuth: 0, Dip: -math.Pi / 2},
		{Depth: 80, Azimuth: 0, Dip: -math.Pi / 2},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 120))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MaxDepth() != 120 {
		t.Errorf("MaxDepth = %v, want 120 (collar total depth)", p.MaxDepth())
	}
	_, _, z := p.PositionAt(120)
	if math.Abs(z-(-120)) > epsilon {
		t.Errorf("elevation at total depth = %v, want -120", z)
	}
}
