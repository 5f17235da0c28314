package orientation

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/Loop3D/loopresources/internal/types"
)

func cp(hole string, x, y, z float64) types.ContactPoint {
	return types.ContactPoint{
		Contact: types.Contact{HoleID: hole, Above: "A", Below: "B"},
		X:       x, Y: y, Z: z,
	}
}

func TestNeighborsWithin(t *testing.T) {
	points := []types.ContactPoint{
		cp("DH001", 0, 0, 0),
		cp("DH002", 1, 0, 0),
		cp("DH003", 0, 2, 0),
		cp("DH004", 10, 10, 10),
	}
	ix := NewIndex(points)
	if ix.Len() != 4 {
		t.Fatalf("index length %d, want 4", ix.Len())
	}

	got := ix.NeighborsWithin(points[0], 2.5)
	if len(got) != 3 {
		t.Fatalf("expected 3 neighbors within 2.5, got %d: %v", len(got), got)
	}
	// Sorted nearest first, query point included.
	if got[0].HoleID != "DH001" || got[1].HoleID != "DH002" || got[2].HoleID != "DH003" {
		t.Errorf("neighbor order %v, want DH001, DH002, DH003", got)
	}

	if got := ix.NeighborsWithin(points[0], 0.5); len(got) != 1 {
		t.Errorf("expected only the query point within 0.5, got %d", len(got))
	}
}

func TestNeighborsWithinEmptyIndex(t *testing.T) {
	ix := NewIndex(nil)
	if got := ix.NeighborsWithin(cp("DH001", 0, 0, 0), 10); got != nil {
		t.Errorf("expected nil from empty index, got %v", got)
	}
}

func TestDefaultRadius(t *testing.T) {
	// Collars on a regular 100m grid: nearest spacing is 100 for each,
	// so the default radius is 200.
	collars := []types.Collar{
		{HoleID: "A", X: 0, Y: 0},
		{HoleID: "B", X: 100, Y: 0},
		{HoleID: "C", X: 0, Y: 100},
		{HoleID: "D", X: 100, Y: 100},
	}
	if got := DefaultRadius(collars); math.Abs(got-200) > 1e-9 {
		t.Errorf("DefaultRadius = %v, want 200", got)
	}

	if got := DefaultRadius(collars[:1]); got != 0 {
		t.Errorf("DefaultRadius of one collar = %v, want 0", got)
	}
	if got := DefaultRadius(nil); got != 0 {
		t.Errorf("DefaultRadius of no collars = %v, want 0", got)
	}
}

func TestFitPlaneHorizontal(t *testing.T) {
	// Four coplanar points in the z = 5 plane: normal (0,0,1), dip 0.
	neighbors := []types.ContactPoint{
		cp("DH001", 0, 0, 5),
		cp("DH002", 10, 0, 5),
		cp("DH003", 0, 10, 5),
		cp("DH004", 10, 10, 5),
	}
	got, err := FitPlane(neighbors[0], neighbors, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	angle := math.Acos(math.Min(math.Abs(got.NZ), 1)) * 180 / math.Pi
	if angle > 1 {
		t.Errorf("normal deviates %v degrees from (0,0,1)", angle)
	}
	if got.DipDeg > 1 {
		t.Errorf("dip = %v, want ~0", got.DipDeg)
	}
	if got.NNeighbors != 4 {
		t.Errorf("NNeighbors = %d, want 4", got.NNeighbors)
	}
	if got.HoleID != "DH001" {
		t.Errorf("center identity lost: %v", got.HoleID)
	}
}

func TestFitPlaneDipping(t *testing.T) {
	// Points on the plane z = -y (45 degrees, dipping toward north):
	// upward normal is (0, 1, 1)/sqrt(2), dip azimuth 0.
	var neighbors []types.ContactPoint
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			x, y := float64(i*10), float64(j*10)
			neighbors = append(neighbors, cp("DH001", x, y, -y))
		}
	}
	got, err := FitPlane(neighbors[0], neighbors, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got.DipDeg-45) > 0.5 {
		t.Errorf("dip = %v, want 45", got.DipDeg)
	}
	if math.Abs(got.AzimuthDeg-0) > 0.5 && math.Abs(got.AzimuthDeg-360) > 0.5 {
		t.Errorf("azimuth = %v, want 0", got.AzimuthDeg)
	}
	if got.NZ < 0 {
		t.Errorf("normal not upward: nz = %v", got.NZ)
	}
}

func TestFitPlaneInsufficientNeighbors(t *testing.T) {
	neighbors := []types.ContactPoint{
		cp("DH001", 0, 0, 0),
		cp("DH002", 1, 1, 0),
	}
	got, err := FitPlane(neighbors[0], neighbors, 3)
	if !errors.Is(err, ErrInsufficientNeighbors) {
		t.Errorf("expected ErrInsufficientNeighbors, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no output record, got %+v", got)
	}
}

func TestFitPlaneCollinearNeighbors(t *testing.T) {
	neighbors := []types.ContactPoint{
		cp("DH001", 0, 0, 0),
		cp("DH002", 1, 1, 1),
		cp("DH003", 2, 2, 2),
		cp("DH004", 3, 3, 3),
	}
	_, err := FitPlane(neighbors[0], neighbors, 3)
	if !errors.Is(err, ErrDegenerateNeighbors) {
		t.Errorf("expected ErrDegenerateNeighbors, got %v", err)
	}
}

// Dip must land in [0, 90] and azimuth in [0, 360) for any neighbor cloud.
func TestFitPlaneConventionRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		// Random plane through the origin, sampled with a little noise.
		theta := rng.Float64() * math.Pi
		phi := rng.Float64() * 2 * math.Pi
		nx := math.Sin(theta) * math.Sin(phi)
		ny := math.Sin(theta) * math.Cos(phi)
		nz := math.Cos(theta)

		// Two in-plane basis vectors.
		var ux, uy, uz float64
		if math.Abs(nz) < 0.9 {
			ux, uy, uz = ny*1-nz*0, nz*0-nx*1, nx*0-ny*0 // n x z
		} else {
			ux, uy, uz = ny*0-nz*0, nz*1-nx*0, nx*0-ny*1 // n x x
		}
		un := math.Sqrt(ux*ux + uy*uy + uz*uz)
		ux, uy, uz = ux/un, uy/un, uz/un
		vx := ny*uz - nz*uy
		vy := nz*ux - nx*uz
		vz := nx*uy - ny*ux

		var neighbors []types.ContactPoint
		for i := 0; i < 8; i++ {
			a, b := rng.NormFloat64()*20, rng.NormFloat64()*20
			w := rng.NormFloat64() * 0.01
			neighbors = append(neighbors, cp("DH001",
				a*ux+b*vx+w*nx,
				a*uy+b*vy+w*ny,
				a*uz+b*vz+w*nz))
		}

		got, err := FitPlane(neighbors[0], neighbors, 3)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		if got.DipDeg < 0 || got.DipDeg > 90 {
			t.Errorf("trial %d: dip %v outside [0, 90]", trial, got.DipDeg)
		}
		if got.AzimuthDeg < 0 || got.AzimuthDeg >= 360 {
			t.Errorf("trial %d: azimuth %v outside [0, 360)", trial, got.AzimuthDeg)
		}
		if got.NZ < 0 {
			t.Errorf("trial %d: normal not upper-hemisphere: %v", trial, got.NZ)
		}
	}
}
