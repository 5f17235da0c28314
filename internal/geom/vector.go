// Package geom provides the 3D vector primitives and orientation
// conversions used by the desurvey and plane-fitting code.
//
// Angle conventions follow downhole surveying practice: azimuth is measured
// in radians clockwise from true north, dip is measured in radians from the
// horizontal with negative values pointing downward. A vertical hole drilled
// straight down therefore has dip = -pi/2.
package geom

import "math"

// Vec3 is a 3D vector in world coordinates (x east, y north, z up).
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// DirectionFromAngles converts a survey azimuth/dip pair to a unit direction
// vector. The inclination from vertical is dip + pi/2, so a dip of -pi/2
// maps to (0, 0, -1), straight down.
func DirectionFromAngles(azimuth, dip float64) Vec3 {
	incl := dip + math.Pi/2
	si, ci := math.Sincos(incl)
	sa, ca := math.Sincos(azimuth)
	return Vec3{si * sa, si * ca, -ci}
}

// AnglesFromDirection converts a unit direction vector back to an
// azimuth/dip pair. Azimuth is normalized to [0, 2*pi).
func AnglesFromDirection(v Vec3) (azimuth, dip float64) {
	v = v.Normalize()
	incl := math.Acos(clamp(-v.Z, -1, 1))
	dip = incl - math.Pi/2
	azimuth = math.Atan2(v.X, v.Y)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}
	return azimuth, dip
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
