// Package types defines the shared drillhole data records passed between
// the storage, desurvey, and orientation packages.
package types

// Collar is the surface origin of a drillhole.
type Collar struct {
	HoleID     string  `json:"hole_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	TotalDepth float64 `json:"total_depth"`
}

// SurveyRow is one directional survey station as stored, keyed by hole.
// Azimuth is radians clockwise from true north; dip is radians from the
// horizontal, negative pointing down.
type SurveyRow struct {
	HoleID  string  `json:"hole_id"`
	Depth   float64 `json:"depth"`
	Azimuth float64 `json:"azimuth"`
	Dip     float64 `json:"dip"`
}

// IntervalRow is one row of an interval log (lithology, assay, ...).
type IntervalRow struct {
	HoleID string  `json:"hole_id"`
	From   float64 `json:"from_depth"`
	To     float64 `json:"to_depth"`
	Value  string  `json:"value"`
}

// PointRow is one row of a point log (a single depth, no range).
type PointRow struct {
	HoleID string  `json:"hole_id"`
	Depth  float64 `json:"depth"`
	Value  string  `json:"value"`
}

// Contact marks a depth where the lithology label changes down a hole.
type Contact struct {
	HoleID string  `json:"hole_id"`
	Depth  float64 `json:"depth"`
	Above  string  `json:"litho_above"`
	Below  string  `json:"litho_below"`
}

// ContactPoint is a Contact placed in world coordinates. Once computed it
// is a detached fact: it carries no reference back to hole state.
type ContactPoint struct {
	Contact
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// OrientedContact is a ContactPoint with a fitted plane orientation, the
// terminal artifact of the orientation pipeline.
type OrientedContact struct {
	ContactPoint
	NX         float64 `json:"nx"`
	NY         float64 `json:"ny"`
	NZ         float64 `json:"nz"`
	DipDeg     float64 `json:"dip_deg"`
	AzimuthDeg float64 `json:"azimuth_deg"`
	NNeighbors int     `json:"n_neighbors"`
}
