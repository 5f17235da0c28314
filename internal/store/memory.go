package store

import (
	"fmt"
	"math"
	"sort"

	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/internal/types"
)

// Memory is the in-memory table backend.
type Memory struct {
	collars   map[string]types.Collar
	holeOrder []string
	survey    map[string][]types.SurveyRow
	intervals map[string]map[string][]types.IntervalRow
	points    map[string]map[string][]types.PointRow
	contacts  map[string][]types.ContactPoint
	oriented  map[string][]types.OrientedContact
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collars:   make(map[string]types.Collar),
		survey:    make(map[string][]types.SurveyRow),
		intervals: make(map[string]map[string][]types.IntervalRow),
		points:    make(map[string]map[string][]types.PointRow),
		contacts:  make(map[string][]types.ContactPoint),
		oriented:  make(map[string][]types.OrientedContact),
	}
}

// PutCollars loads the collar table, rejecting duplicate hole ids.
func (m *Memory) PutCollars(collars []types.Collar) error {
	for _, c := range collars {
		if _, dup := m.collars[c.HoleID]; dup {
			return fmt.Errorf("hole %s: %w", c.HoleID, ErrDuplicateHole)
		}
		m.collars[c.HoleID] = c
		m.holeOrder = append(m.holeOrder, c.HoleID)
	}
	sort.Strings(m.holeOrder)
	return nil
}

// PutSurvey loads survey stations. Every station's hole must exist in the
// collar table. Angle columns that look like degrees are normalized to
// radians (an azimuth span wider than 2*pi cannot be radians).
func (m *Memory) PutSurvey(rows []types.SurveyRow) error {
	for _, r := range rows {
		if _, ok := m.collars[r.HoleID]; !ok {
			return fmt.Errorf("survey row for hole %s: %w", r.HoleID, ErrUnknownHole)
		}
	}
	rows = normalizeAngles(rows)
	for _, r := range rows {
		m.survey[r.HoleID] = append(m.survey[r.HoleID], r)
	}
	for hole := range m.survey {
		sort.Slice(m.survey[hole], func(i, j int) bool {
			return m.survey[hole][i].Depth < m.survey[hole][j].Depth
		})
	}
	return nil
}

// AddIntervalTable registers a named interval table. Rows referencing
// unknown holes are rejected.
func (m *Memory) AddIntervalTable(name string, rows []types.IntervalRow) error {
	byHole := make(map[string][]types.IntervalRow)
	for _, r := range rows {
		if _, ok := m.collars[r.HoleID]; !ok {
			return fmt.Errorf("interval table %s, hole %s: %w", name, r.HoleID, ErrUnknownHole)
		}
		byHole[r.HoleID] = append(byHole[r.HoleID], r)
	}
	for hole := range byHole {
		sort.Slice(byHole[hole], func(i, j int) bool {
			return byHole[hole][i].From < byHole[hole][j].From
		})
	}
	m.intervals[name] = byHole
	return nil
}

// AddPointTable registers a named point table.
func (m *Memory) AddPointTable(name string, rows []types.PointRow) error {
	byHole := make(map[string][]types.PointRow)
	for _, r := range rows {
		if _, ok := m.collars[r.HoleID]; !ok {
			return fmt.Errorf("point table %s, hole %s: %w", name, r.HoleID, ErrUnknownHole)
		}
		byHole[r.HoleID] = append(byHole[r.HoleID], r)
	}
	for hole := range byHole {
		sort.Slice(byHole[hole], func(i, j int) bool {
			return byHole[hole][i].Depth < byHole[hole][j].Depth
		})
	}
	m.points[name] = byHole
	return nil
}

// ListHoles returns all hole ids, sorted.
func (m *Memory) ListHoles() ([]string, error) {
	out := make([]string, len(m.holeOrder))
	copy(out, m.holeOrder)
	return out, nil
}

// Collar returns the collar record for a hole.
func (m *Memory) Collar(holeID string) (types.Collar, error) {
	c, ok := m.collars[holeID]
	if !ok {
		return types.Collar{}, fmt.Errorf("hole %s: %w", holeID, ErrUnknownHole)
	}
	return c, nil
}

// Collars returns all collar records in hole order.
func (m *Memory) Collars() ([]types.Collar, error) {
	out := make([]types.Collar, 0, len(m.holeOrder))
	for _, id := range m.holeOrder {
		out = append(out, m.collars[id])
	}
	return out, nil
}

// Survey returns a hole's stations ordered by depth.
func (m *Memory) Survey(holeID string) ([]types.SurveyRow, error) {
	if _, ok := m.collars[holeID]; !ok {
		return nil, fmt.Errorf("hole %s: %w", holeID, ErrUnknownHole)
	}
	rows := m.survey[holeID]
	out := make([]types.SurveyRow, len(rows))
	copy(out, rows)
	return out, nil
}

// IntervalTable returns one hole's rows of a named interval table, ordered
// by from-depth.
func (m *Memory) IntervalTable(name, holeID string) ([]types.IntervalRow, error) {
	byHole, ok := m.intervals[name]
	if !ok {
		return nil, fmt.Errorf("interval table %s: %w", name, ErrUnknownTable)
	}
	rows := byHole[holeID]
	out := make([]types.IntervalRow, len(rows))
	copy(out, rows)
	return out, nil
}

// PointTable returns one hole's rows of a named point table, ordered by
// depth.
func (m *Memory) PointTable(name, holeID string) ([]types.PointRow, error) {
	byHole, ok := m.points[name]
	if !ok {
		return nil, fmt.Errorf("point table %s: %w", name, ErrUnknownTable)
	}
	rows := byHole[holeID]
	out := make([]types.PointRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Extent returns the bounding box of all collar locations.
func (m *Memory) Extent() (Extent, error) {
	if len(m.collars) == 0 {
		return Extent{}, nil
	}
	e := Extent{
		XMin: math.Inf(1), XMax: math.Inf(-1),
		YMin: math.Inf(1), YMax: math.Inf(-1),
		ZMin: math.Inf(1), ZMax: math.Inf(-1),
	}
	for _, c := range m.collars {
		e.XMin = math.Min(e.XMin, c.X)
		e.XMax = math.Max(e.XMax, c.X)
		e.YMin = math.Min(e.YMin, c.Y)
		e.YMax = math.Max(e.YMax, c.Y)
		e.ZMin = math.Min(e.ZMin, c.Z)
		e.ZMax = math.Max(e.ZMax, c.Z)
	}
	return e, nil
}

// SaveContacts stores a named contact point result set, replacing any
// previous set under that name.
func (m *Memory) SaveContacts(name string, contacts []types.ContactPoint) error {
	out := make([]types.ContactPoint, len(contacts))
	copy(out, contacts)
	m.contacts[name] = out
	return nil
}

// SaveOrientedContacts stores a named oriented contact result set.
func (m *Memory) SaveOrientedContacts(name string, oriented []types.OrientedContact) error {
	out := make([]types.OrientedContact, len(oriented))
	copy(out, oriented)
	m.oriented[name] = out
	return nil
}

// Contacts returns a previously saved contact result set.
func (m *Memory) Contacts(name string) ([]types.ContactPoint, error) {
	rows, ok := m.contacts[name]
	if !ok {
		return nil, fmt.Errorf("contact set %s: %w", name, ErrUnknownTable)
	}
	return rows, nil
}

// OrientedContacts returns a previously saved oriented contact result set.
func (m *Memory) OrientedContacts(name string) ([]types.OrientedContact, error) {
	rows, ok := m.oriented[name]
	if !ok {
		return nil, fmt.Errorf("oriented contact set %s: %w", name, ErrUnknownTable)
	}
	return rows, nil
}

// Close is a no-op for the memory backend.
func (m *Memory) Close() error { return nil }

// FilterOptions selects a subset of holes for a derived store.
type FilterOptions struct {
	// Holes keeps only the named holes when non-nil.
	Holes []string
	// BBox keeps holes whose collar XY falls inside (xmin, xmax, ymin,
	// ymax) when non-nil.
	BBox *[4]float64
	// Depth keeps holes whose total depth falls inside (min, max) when
	// non-nil.
	Depth *[2]float64
}

// Filter returns a derived Memory store containing only the selected
// holes and their survey/interval/point rows.
func (m *Memory) Filter(opts FilterOptions) (*Memory, error) {
	keep := make(map[string]bool)
	for _, id := range m.holeOrder {
		keep[id] = true
	}
	if opts.Holes != nil {
		named := make(map[string]bool, len(opts.Holes))
		for _, id := range opts.Holes {
			named[id] = true
		}
		for id := range keep {
			if !named[id] {
				delete(keep, id)
			}
		}
	}
	if opts.BBox != nil {
		b := *opts.BBox
		for id := range keep {
			c := m.collars[id]
			if c.X < b[0] || c.X > b[1] || c.Y < b[2] || c.Y > b[3] {
				delete(keep, id)
			}
		}
	}
	if opts.Depth != nil {
		d := *opts.Depth
		for id := range keep {
			if td := m.collars[id].TotalDepth; td < d[0] || td > d[1] {
				delete(keep, id)
			}
		}
	}

	out := NewMemory()
	var collars []types.Collar
	for _, id := range m.holeOrder {
		if keep[id] {
			collars = append(collars, m.collars[id])
		}
	}
	if err := out.PutCollars(collars); err != nil {
		return nil, err
	}
	for _, id := range out.holeOrder {
		out.survey[id] = append([]types.SurveyRow(nil), m.survey[id]...)
	}
	for name, byHole := range m.intervals {
		sub := make(map[string][]types.IntervalRow)
		for id, rows := range byHole {
			if keep[id] {
				sub[id] = append([]types.IntervalRow(nil), rows...)
			}
		}
		out.intervals[name] = sub
	}
	for name, byHole := range m.points {
		sub := make(map[string][]types.PointRow)
		for id, rows := range byHole {
			if keep[id] {
				sub[id] = append([]types.PointRow(nil), rows...)
			}
		}
		out.points[name] = sub
	}
	return out, nil
}

// normalizeAngles converts azimuth/dip columns from degrees to radians
// when their spread can only be degrees.
func normalizeAngles(rows []types.SurveyRow) []types.SurveyRow {
	if len(rows) == 0 {
		return rows
	}
	azMin, azMax := rows[0].Azimuth, rows[0].Azimuth
	dipMin, dipMax := rows[0].Dip, rows[0].Dip
	for _, r := range rows {
		azMin = math.Min(azMin, r.Azimuth)
		azMax = math.Max(azMax, r.Azimuth)
		dipMin = math.Min(dipMin, r.Dip)
		dipMax = math.Max(dipMax, r.Dip)
	}
	out := make([]types.SurveyRow, len(rows))
	copy(out, rows)
	if azMax-azMin > 2*math.Pi || azMax > 2*math.Pi {
		log.Debug("survey azimuth looks like degrees, converting to radians")
		for i := range out {
			out[i].Azimuth = out[i].Azimuth * math.Pi / 180
		}
	}
	if dipMax-dipMin > math.Pi || dipMin < -math.Pi/2 || dipMax > math.Pi/2 {
		log.Debug("survey dip looks like degrees, converting to radians")
		for i := range out {
			out[i].Dip = out[i].Dip * math.Pi / 180
		}
	}
	return out
}
