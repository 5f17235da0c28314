// Package desurvey reconstructs the 3D trajectory of a drillhole from its
// directional survey stations and maps logged depths onto that trajectory.
//
// The minimum curvature method is used between stations: each pair of
// consecutive survey directions is joined by a circular arc whose chord
// displacement is the vector sum of the endpoint directions scaled by the
// dogleg ratio factor. A hole surveyed at two stations or fewer falls back
// to the tangent (straight line) method.
package desurvey

import (
	"fmt"
	"math"
	"sort"

	"github.com/Loop3D/loopresources/internal/geom"
	"github.com/Loop3D/loopresources/internal/types"
)

// Station is one directional survey measurement along a hole. Azimuth is
// radians clockwise from true north; dip is radians from the horizontal,
// negative pointing down.
type Station struct {
	Depth   float64
	Azimuth float64
	Dip     float64
}

// betaTaylorCutoff is the dogleg angle below which the ratio factor is
// computed with its Taylor expansion instead of tan(b/2)*2/b, which is 0/0
// at b = 0.
const betaTaylorCutoff = 1e-6

// segment caches the arc parameters between two consecutive stations so
// position queries never recompute the dogleg geometry.
type segment struct {
	depthFrom float64
	depthTo   float64
	dirFrom   geom.Vec3
	dirTo     geom.Vec3
	posFrom   geom.Vec3 // world position at depthFrom
	beta      float64   // dogleg angle between dirFrom and dirTo
	rf        float64   // minimum-curvature ratio factor
}

// Path is the reconstructed trajectory of one drillhole. It is immutable
// after construction and keeps no reference to the station slice it was
// built from.
type Path struct {
	holeID   string
	collar   geom.Vec3
	stations []Station
	segments []segment
	tangent  bool // straight-line fallback for <=2 stations
	maxDepth float64
}

// ratioFactor computes the minimum-curvature ratio factor for a dogleg
// angle. RF -> 1 as beta -> 0; small angles use the Taylor expansion
// 1 + beta^2/12 to avoid the 0/0.
func ratioFactor(beta float64) float64 {
	if beta < betaTaylorCutoff {
		return 1 + beta*beta/12
	}
	return (2 / beta) * math.Tan(beta/2)
}

// BuildPath reconstructs a drillhole trajectory from its survey stations
// and collar location. Stations must be strictly increasing in depth. A
// survey that does not start at depth zero gets a synthetic collar station
// carrying the first recorded orientation. When the collar's total depth
// exceeds the deepest station, the path is extended to total depth with
// the last station's orientation, matching the usual convention of
// extrapolating with the bottom survey value.
func BuildPath(stations []Station, collar types.Collar) (*Path, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("hole %s: %w", collar.HoleID, ErrInsufficientStations)
	}
	for i := 1; i < len(stations); i++ {
		if stations[i].Depth <= stations[i-1].Depth {
			return nil, fmt.Errorf("hole %s: depth %g after %g: %w",
				collar.HoleID, stations[i].Depth, stations[i-1].Depth, ErrNonMonotonicDepth)
		}
	}
	if stations[0].Depth < 0 {
		return nil, fmt.Errorf("hole %s: negative station depth %g: %w",
			collar.HoleID, stations[0].Depth, ErrNonMonotonicDepth)
	}

	// Copy, then patch the ends: synthetic collar station at zero and a
	// terminal station at total depth when the survey stops short.
	sts := make([]Station, 0, len(stations)+2)
	if stations[0].Depth > 0 {
		sts = append(sts, Station{Depth: 0, Azimuth: stations[0].Azimuth, Dip: stations[0].Dip})
	}
	sts = append(sts, stations...)
	if last := sts[len(sts)-1]; collar.TotalDepth > last.Depth {
		sts = append(sts, Station{Depth: collar.TotalDepth, Azimuth: last.Azimuth, Dip: last.Dip})
	}

	p := &Path{
		holeID:   collar.HoleID,
		collar:   geom.Vec3{X: collar.X, Y: collar.Y, Z: collar.Z},
		stations: sts,
		tangent:  len(stations) <= 2,
		maxDepth: sts[len(sts)-1].Depth,
	}

	if p.tangent {
		return p, nil
	}

	p.segments = make([]segment, len(sts)-1)
	pos := p.collar
	for i := 0; i < len(sts)-1; i++ {
		a, b := sts[i], sts[i+1]
		dirA := geom.DirectionFromAngles(a.Azimuth, a.Dip)
		dirB := geom.DirectionFromAngles(b.Azimuth, b.Dip)
		beta := geom.AngleBetween(dirA, dirB)
		if math.Pi-beta < 1e-9 {
			return nil, fmt.Errorf("hole %s: stations at %g and %g: %w",
				collar.HoleID, a.Depth, b.Depth, geom.ErrDegenerateOrientation)
		}
		rf := ratioFactor(beta)
		p.segments[i] = segment{
			depthFrom: a.Depth,
			depthTo:   b.Depth,
			dirFrom:   dirA,
			dirTo:     dirB,
			posFrom:   pos,
			beta:      beta,
			rf:        rf,
		}
		length := b.Depth - a.Depth
		pos = pos.Add(dirA.Add(dirB).Scale(length / 2 * rf))
	}
	return p, nil
}

// HoleID returns the hole identifier the path was built for.
func (p *Path) HoleID() string { return p.holeID }

// MaxDepth returns the deepest along-hole depth covered by the path.
func (p *Path) MaxDepth() float64 { return p.maxDepth }

// Collar returns the world position of the collar.
func (p *Path) Collar() (x, y, z float64) { return p.collar.X, p.collar.Y, p.collar.Z }

// Clamp restricts an along-hole depth to the path's coverage and reports
// whether clamping was applied. Logged depths routinely overshoot survey
// coverage by rounding, so out-of-range queries degrade to the nearest
// boundary instead of failing.
func (p *Path) Clamp(depth float64) (float64, bool) {
	if depth < 0 {
		return 0, true
	}
	if depth > p.maxDepth {
		return p.maxDepth, true
	}
	return depth, false
}

// PositionAt returns the world coordinates of the point at an along-hole
// depth. Depths outside [0, MaxDepth] are clamped.
func (p *Path) PositionAt(depth float64) (x, y, z float64) {
	depth, _ = p.Clamp(depth)

	if p.tangent {
		dir := geom.DirectionFromAngles(p.stations[0].Azimuth, p.stations[0].Dip)
		pos := p.collar.Add(dir.Scale(depth))
		return pos.X, pos.Y, pos.Z
	}

	seg := &p.segments[p.segmentIndex(depth)]
	sub := depth - seg.depthFrom
	if sub == 0 {
		return seg.posFrom.X, seg.posFrom.Y, seg.posFrom.Z
	}

	length := seg.depthTo - seg.depthFrom
	t := sub / length
	// Interior directions lie on the segment's own arc, so the slerp can
	// never hit the anti-parallel case rejected at build time.
	dirAt, _ := geom.Slerp(seg.dirFrom, seg.dirTo, t)
	betaSub := geom.AngleBetween(seg.dirFrom, dirAt)
	pos := seg.posFrom.Add(seg.dirFrom.Add(dirAt).Scale(sub / 2 * ratioFactor(betaSub)))
	return pos.X, pos.Y, pos.Z
}

// OrientationAt returns the interpolated azimuth and dip at an along-hole
// depth. Interpolation at a station depth reproduces that station's own
// orientation; depths beyond the last station reuse its orientation.
func (p *Path) OrientationAt(depth float64) (azimuth, dip float64) {
	depth, _ = p.Clamp(depth)

	i := sort.Search(len(p.stations), func(k int) bool { return p.stations[k].Depth >= depth })
	if i < len(p.stations) && p.stations[i].Depth == depth {
		return p.stations[i].Azimuth, p.stations[i].Dip
	}
	if i == 0 {
		return p.stations[0].Azimuth, p.stations[0].Dip
	}
	if i == len(p.stations) {
		last := p.stations[len(p.stations)-1]
		return last.Azimuth, last.Dip
	}

	a, b := p.stations[i-1], p.stations[i]
	t := (depth - a.Depth) / (b.Depth - a.Depth)
	dirA := geom.DirectionFromAngles(a.Azimuth, a.Dip)
	dirB := geom.DirectionFromAngles(b.Azimuth, b.Dip)
	dir, err := geom.Slerp(dirA, dirB, t)
	if err != nil {
		// Anti-parallel stations are rejected at build time for the
		// minimum-curvature case; a tangent path answers with its
		// bracketing station instead.
		return a.Azimuth, a.Dip
	}
	return geom.AnglesFromDirection(dir)
}

// segmentIndex locates the segment bracketing a clamped depth by binary
// search. Depths at a station boundary resolve to the deeper segment,
// except at the very bottom.
func (p *Path) segmentIndex(depth float64) int {
	i := sort.Search(len(p.segments), func(k int) bool { return p.segments[k].depthTo >= depth })
	if i == len(p.segments) {
		i = len(p.segments) - 1
	}
	return i
}
