// Package store holds drillhole tables behind one read interface with two
// backends: an in-memory table store and a persistent SQLite file store.
// The geometry code never learns which backend served its data.
package store

import (
	"errors"

	"github.com/Loop3D/loopresources/internal/types"
)

var (
	// ErrUnknownHole indicates a hole id with no collar record.
	ErrUnknownHole = errors.New("hole id not found in collar table")

	// ErrUnknownTable indicates a table name that was never registered.
	ErrUnknownTable = errors.New("table not found")

	// ErrDuplicateHole indicates repeated hole ids in the collar table.
	ErrDuplicateHole = errors.New("duplicate hole id in collar table")
)

// Extent is the bounding box of all collar locations.
type Extent struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// Store is the capability interface over a drillhole database. Survey rows
// come back ordered by depth; interval and point rows ordered by from-depth
// and depth respectively.
type Store interface {
	PutCollars(collars []types.Collar) error
	PutSurvey(rows []types.SurveyRow) error
	AddIntervalTable(name string, rows []types.IntervalRow) error
	AddPointTable(name string, rows []types.PointRow) error

	ListHoles() ([]string, error)
	Collar(holeID string) (types.Collar, error)
	Collars() ([]types.Collar, error)
	Survey(holeID string) ([]types.SurveyRow, error)
	IntervalTable(name, holeID string) ([]types.IntervalRow, error)
	PointTable(name, holeID string) ([]types.PointRow, error)
	Extent() (Extent, error)

	SaveContacts(name string, contacts []types.ContactPoint) error
	SaveOrientedContacts(name string, oriented []types.OrientedContact) error

	Close() error
}
