package geom

import (
	"errors"
	"math"
)

// ErrDegenerateOrientation indicates two survey directions that are
// anti-parallel, for which great-circle interpolation is undefined.
var ErrDegenerateOrientation = errors.New("anti-parallel directions: orientation interpolation is undefined")

// angleEpsilon is the angular tolerance (radians) below which two
// directions are treated as identical, and within which of pi they are
// treated as anti-parallel.
const angleEpsilon = 1e-9

// Slerp interpolates between two unit directions along the great circle
// joining them. t is the fractional position in [0, 1]. Independent linear
// interpolation of azimuth and dip is wrong near vertical holes and across
// the north wrap, which is why the interpolation happens on the sphere.
//
// Nearly identical directions short-circuit to the first endpoint; nearly
// anti-parallel directions return ErrDegenerateOrientation because the
// great circle between them is not unique.
func Slerp(a, b Vec3, t float64) (Vec3, error) {
	dot := clamp(a.Dot(b), -1, 1)
	omega := math.Acos(dot)

	if omega < angleEpsilon {
		return a, nil
	}
	if math.Pi-omega < angleEpsilon {
		return Vec3{}, ErrDegenerateOrientation
	}

	sinOmega := math.Sin(omega)
	wa := math.Sin((1-t)*omega) / sinOmega
	wb := math.Sin(t*omega) / sinOmega
	return a.Scale(wa).Add(b.Scale(wb)).Normalize(), nil
}

// AngleBetween returns the angle in radians between two unit directions,
// clamped against floating point drift in the dot product.
func AngleBetween(a, b Vec3) float64 {
	return math.Acos(clamp(a.Dot(b), -1, 1))
}
