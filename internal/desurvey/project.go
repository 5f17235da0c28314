package desurvey

import "github.com/Loop3D/loopresources/internal/types"

// ProjectionMode selects how interval rows are placed on a path.
type ProjectionMode int

const (
	// ModeMidpoint evaluates the path once per row at (from+to)/2.
	ModeMidpoint ProjectionMode = iota
	// ModeFromTo evaluates the path at both interval ends and emits two
	// records per row.
	ModeFromTo
)

// BoundaryTag says which depth of the source row a projected record was
// evaluated at.
type BoundaryTag string

const (
	AtPoint    BoundaryTag = "point"
	AtMidpoint BoundaryTag = "mid"
	AtFrom     BoundaryTag = "from"
	AtTo       BoundaryTag = "to"
)

// ProjectedRow is one evaluation of a log row on a drillhole path.
type ProjectedRow struct {
	Row        int // index of the source row
	HoleID     string
	At         BoundaryTag
	Depth      float64 // the depth that was evaluated, before clamping
	X, Y, Z    float64
	Azimuth    float64
	Dip        float64
	OutOfRange bool // depth fell outside path coverage and was clamped
}

// ProjectIntervals maps interval log rows onto world coordinates along a
// path. Rows whose depths exceed the path coverage are clamped to the
// nearest bound and flagged OutOfRange rather than dropped, leaving the
// discard decision to the caller.
func ProjectIntervals(p *Path, rows []types.IntervalRow, mode ProjectionMode) []ProjectedRow {
	var out []ProjectedRow
	if mode == ModeFromTo {
		out = make([]ProjectedRow, 0, 2*len(rows))
	} else {
		out = make([]ProjectedRow, 0, len(rows))
	}
	for i, row := range rows {
		switch mode {
		case ModeFromTo:
			out = append(out,
				evaluate(p, i, row.HoleID, AtFrom, row.From),
				evaluate(p, i, row.HoleID, AtTo, row.To))
		default:
			out = append(out, evaluate(p, i, row.HoleID, AtMidpoint, (row.From+row.To)/2))
		}
	}
	return out
}

// ProjectPoints maps point log rows onto world coordinates along a path.
func ProjectPoints(p *Path, rows []types.PointRow) []ProjectedRow {
	out := make([]ProjectedRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, evaluate(p, i, row.HoleID, AtPoint, row.Depth))
	}
	return out
}

func evaluate(p *Path, row int, holeID string, at BoundaryTag, depth float64) ProjectedRow {
	clamped, oor := p.Clamp(depth)
	x, y, z := p.PositionAt(clamped)
	az, dip := p.OrientationAt(clamped)
	return ProjectedRow{
		Row:        row,
		HoleID:     holeID,
		At:         at,
		Depth:      depth,
		X:          x,
		Y:          y,
		Z:          z,
		Azimuth:    az,
		Dip:        dip,
		OutOfRange: oor,
	}
}
