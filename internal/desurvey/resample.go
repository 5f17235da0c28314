package desurvey

import "fmt"

// Resample produces a new station sequence for a path at a fixed depth
// increment: 0, step, 2*step, ... plus a final station exactly at MaxDepth
// when the increment does not land on it, so re-resampling at the same
// step is idempotent. Orientations are interpolated across the original
// segments, never from previously resampled stations, to avoid compounding
// interpolation error.
func Resample(p *Path, step float64) ([]Station, error) {
	if step <= 0 {
		return nil, fmt.Errorf("step %g: %w", step, ErrInvalidStep)
	}

	n := int(p.MaxDepth()/step) + 1
	out := make([]Station, 0, n+1)
	for i := 0; i < n; i++ {
		d := float64(i) * step
		az, dip := p.OrientationAt(d)
		out = append(out, Station{Depth: d, Azimuth: az, Dip: dip})
	}
	if last := out[len(out)-1].Depth; last < p.MaxDepth() {
		az, dip := p.OrientationAt(p.MaxDepth())
		out = append(out, Station{Depth: p.MaxDepth(), Azimuth: az, Dip: dip})
	}
	return out, nil
}
