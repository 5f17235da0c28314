package orientation

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/Loop3D/loopresources/internal/types"
)

// ErrInsufficientNeighbors indicates a neighbor set too small for a plane
// fit.
var ErrInsufficientNeighbors = errors.New("not enough neighbors for a plane fit")

// ErrDegenerateNeighbors indicates a neighbor cloud that is collinear (or
// a single point), for which the fitted plane normal is not unique.
var ErrDegenerateNeighbors = errors.New("neighbor points are collinear: plane normal is not unique")

// DefaultMinNeighbors is the smallest neighbor set a plane can be fit to.
// The center contact is always part of its own neighbor set.
const DefaultMinNeighbors = 3

// eigenGapEpsilon is the relative gap between the two smallest covariance
// eigenvalues below which the normal direction is considered ambiguous.
const eigenGapEpsilon = 1e-12

// FitPlane fits a least-squares plane through a contact's neighbor set and
// returns the contact tagged with the plane orientation in geological
// convention. The neighbors are centered on their centroid and the 3x3
// covariance matrix is eigen-decomposed; the eigenvector of the smallest
// eigenvalue is the plane normal. The normal's sign is chosen so its
// vertical component is non-negative, since dip and azimuth are defined on
// the upper hemisphere.
func FitPlane(center types.ContactPoint, neighbors []types.ContactPoint, minNeighbors int) (*types.OrientedContact, error) {
	if minNeighbors <= 0 {
		minNeighbors = DefaultMinNeighbors
	}
	if len(neighbors) < minNeighbors {
		return nil, fmt.Errorf("hole %s depth %g: %d of %d required: %w",
			center.HoleID, center.Depth, len(neighbors), minNeighbors, ErrInsufficientNeighbors)
	}

	var cx, cy, cz float64
	for _, p := range neighbors {
		cx += p.X
		cy += p.Y
		cz += p.Z
	}
	n := float64(len(neighbors))
	cx /= n
	cy /= n
	cz /= n

	var sxx, sxy, sxz, syy, syz, szz float64
	for _, p := range neighbors {
		dx, dy, dz := p.X-cx, p.Y-cy, p.Z-cz
		sxx += dx * dx
		sxy += dx * dy
		sxz += dx * dz
		syy += dy * dy
		syz += dy * dz
		szz += dz * dz
	}

	cov := mat.NewSymDense(3, []float64{
		sxx, sxy, sxz,
		sxy, syy, syz,
		sxz, syz, szz,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return nil, fmt.Errorf("hole %s depth %g: covariance eigen-decomposition failed: %w",
			center.HoleID, center.Depth, ErrDegenerateNeighbors)
	}

	// Eigenvalues come back in ascending order; the smallest one's
	// eigenvector is the normal. A vanishing gap between the two smallest
	// means the points are collinear and any normal in a whole plane of
	// directions would fit.
	vals := eig.Values(nil)
	scale := vals[2]
	if scale <= 0 || vals[1]-vals[0] <= eigenGapEpsilon*scale {
		return nil, fmt.Errorf("hole %s depth %g: %w", center.HoleID, center.Depth, ErrDegenerateNeighbors)
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	nx, ny, nz := vecs.At(0, 0), vecs.At(1, 0), vecs.At(2, 0)

	norm := math.Sqrt(nx*nx + ny*ny + nz*nz)
	nx, ny, nz = nx/norm, ny/norm, nz/norm
	if nz < 0 {
		nx, ny, nz = -nx, -ny, -nz
	}

	dip := deg(math.Acos(math.Min(math.Abs(nz), 1)))
	if dip < 0 {
		dip = 0
	} else if dip > 90 {
		dip = 90
	}
	azimuth := math.Mod(deg(math.Atan2(nx, ny)), 360)
	if azimuth < 0 {
		azimuth += 360
	}

	return &types.OrientedContact{
		ContactPoint: center,
		NX:           nx,
		NY:           ny,
		NZ:           nz,
		DipDeg:       dip,
		AzimuthDeg:   azimuth,
		NNeighbors:   len(neighbors),
	}, nil
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
