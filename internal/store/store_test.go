package store

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Loop3D/loopresources/internal/types"
)

func testCollars() []types.Collar {
	return []types.Collar{
		{HoleID: "DH001", X: 100, Y: 1000, Z: 50, TotalDepth: 150},
		{HoleID: "DH002", X: 200, Y: 2000, Z: 60, TotalDepth: 200},
		{HoleID: "DH003", X: 300, Y: 3000, Z: 70, TotalDepth: 180},
	}
}

func testSurvey() []types.SurveyRow {
	return []types.SurveyRow{
		{HoleID: "DH001", Depth: 0, Azimuth: 0, Dip: -math.Pi / 2},
		{HoleID: "DH001", Depth: 75, Azimuth: 0, Dip: -math.Pi / 2},
		{HoleID: "DH002", Depth: 0, Azimuth: math.Pi / 4, Dip: -1.4},
		{HoleID: "DH002", Depth: 100, Azimuth: math.Pi / 4, Dip: -1.4},
		{HoleID: "DH003", Depth: 0, Azimuth: math.Pi / 2, Dip: -1.48},
	}
}

// both backends must behave identically through the Store interface.
func eachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLite(filepath.Join(t.TempDir(), "drillholes.db"))
		if err != nil {
			t.Fatalf("failed to open sqlite store: %v", err)
		}
		defer s.Close()
		fn(t, s)
	})
}

func TestStoreRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		if err := s.PutCollars(testCollars()); err != nil {
			t.Fatalf("PutCollars: %v", err)
		}
		if err := s.PutSurvey(testSurvey()); err != nil {
			t.Fatalf("PutSurvey: %v", err)
		}

		holes, err := s.ListHoles()
		if err != nil {
			t.Fatalf("ListHoles: %v", err)
		}
		if diff := cmp.Diff([]string{"DH001", "DH002", "DH003"}, holes); diff != "" {
			t.Errorf("holes mismatch (-want +got):\n%s", diff)
		}

		c, err := s.Collar("DH002")
		if err != nil {
			t.Fatalf("Collar: %v", err)
		}
		if c.X != 200 || c.TotalDepth != 200 {
			t.Errorf("collar DH002 = %+v", c)
		}

		survey, err := s.Survey("DH001")
		if err != nil {
			t.Fatalf("Survey: %v", err)
		}
		if len(survey) != 2 || survey[0].Depth != 0 || survey[1].Depth != 75 {
			t.Errorf("survey DH001 = %+v", survey)
		}

		if _, err := s.Collar("DH999"); !errors.Is(err, ErrUnknownHole) {
			t.Errorf("expected ErrUnknownHole, got %v", err)
		}
		if _, err := s.Survey("DH999"); !errors.Is(err, ErrUnknownHole) {
			t.Errorf("expected ErrUnknownHole, got %v", err)
		}
	})
}

func TestStoreValidation(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		if err := s.PutCollars(testCollars()); err != nil {
			t.Fatalf("PutCollars: %v", err)
		}

		if err := s.PutCollars([]types.Collar{{HoleID: "DH001"}}); !errors.Is(err, ErrDuplicateHole) {
			t.Errorf("expected ErrDuplicateHole, got %v", err)
		}
		if err := s.PutSurvey([]types.SurveyRow{{HoleID: "DH999"}}); !errors.Is(err, ErrUnknownHole) {
			t.Errorf("expected ErrUnknownHole, got %v", err)
		}
		if err := s.AddIntervalTable("geology", []types.IntervalRow{{HoleID: "DH999"}}); !errors.Is(err, ErrUnknownHole) {
			t.Errorf("expected ErrUnknownHole for interval table, got %v", err)
		}
	})
}

func TestStoreTables(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		if err := s.PutCollars(testCollars()); err != nil {
			t.Fatalf("PutCollars: %v", err)
		}

		geology := []types.IntervalRow{
			{HoleID: "DH001", From: 25, To: 60, Value: "granite"},
			{HoleID: "DH001", From: 0, To: 25, Value: "sandstone"},
			{HoleID: "DH002", From: 0, To: 40, Value: "sandstone"},
		}
		if err := s.AddIntervalTable("geology", geology); err != nil {
			t.Fatalf("AddIntervalTable: %v", err)
		}

		rows, err := s.IntervalTable("geology", "DH001")
		if err != nil {
			t.Fatalf("IntervalTable: %v", err)
		}
		want := []types.IntervalRow{
			{HoleID: "DH001", From: 0, To: 25, Value: "sandstone"},
			{HoleID: "DH001", From: 25, To: 60, Value: "granite"},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("interval rows mismatch (-want +got):\n%s", diff)
		}

		if _, err := s.IntervalTable("assays", "DH001"); !errors.Is(err, ErrUnknownTable) {
			t.Errorf("expected ErrUnknownTable, got %v", err)
		}

		samples := []types.PointRow{
			{HoleID: "DH002", Depth: 55.5, Value: "qtz-vein"},
			{HoleID: "DH002", Depth: 12.0, Value: "fault"},
		}
		if err := s.AddPointTable("structures", samples); err != nil {
			t.Fatalf("AddPointTable: %v", err)
		}
		pts, err := s.PointTable("structures", "DH002")
		if err != nil {
			t.Fatalf("PointTable: %v", err)
		}
		if len(pts) != 2 || pts[0].Depth != 12.0 {
			t.Errorf("point rows not ordered by depth: %+v", pts)
		}
	})
}

func TestStoreExtent(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		if err := s.PutCollars(testCollars()); err != nil {
			t.Fatalf("PutCollars: %v", err)
		}
		e, err := s.Extent()
		if err != nil {
			t.Fatalf("Extent: %v", err)
		}
		want := Extent{XMin: 100, XMax: 300, YMin: 1000, YMax: 3000, ZMin: 50, ZMax: 70}
		if diff := cmp.Diff(want, e); diff != "" {
			t.Errorf("extent mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStoreResultSets(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		contacts := []types.ContactPoint{
			{Contact: types.Contact{HoleID: "DH001", Depth: 25, Above: "sandstone", Below: "granite"}, X: 100, Y: 1000, Z: 25},
		}
		if err := s.SaveContacts("contacts", contacts); err != nil {
			t.Fatalf("SaveContacts: %v", err)
		}
		oriented := []types.OrientedContact{
			{ContactPoint: contacts[0], NZ: 1, DipDeg: 0, AzimuthDeg: 0, NNeighbors: 4},
		}
		if err := s.SaveOrientedContacts("oriented", oriented); err != nil {
			t.Fatalf("SaveOrientedContacts: %v", err)
		}

		reader, ok := s.(interface {
			Contacts(name string) ([]types.ContactPoint, error)
			OrientedContacts(name string) ([]types.OrientedContact, error)
		})
		if !ok {
			t.Fatal("backend does not expose result set readers")
		}
		gotContacts, err := reader.Contacts("contacts")
		if err != nil {
			t.Fatalf("Contacts: %v", err)
		}
		if diff := cmp.Diff(contacts, gotContacts); diff != "" {
			t.Errorf("contacts mismatch (-want +got):\n%s", diff)
		}
		gotOriented, err := reader.OrientedContacts("oriented")
		if err != nil {
			t.Fatalf("OrientedContacts: %v", err)
		}
		if diff := cmp.Diff(oriented, gotOriented); diff != "" {
			t.Errorf("oriented contacts mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDegreeNormalization(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		if err := s.PutCollars(testCollars()); err != nil {
			t.Fatalf("PutCollars: %v", err)
		}
		// Clearly degree-valued survey: azimuths up to 270, dips to -90.
		rows := []types.SurveyRow{
			{HoleID: "DH001", Depth: 0, Azimuth: 0, Dip: -90},
			{HoleID: "DH001", Depth: 50, Azimuth: 270, Dip: -85},
		}
		if err := s.PutSurvey(rows); err != nil {
			t.Fatalf("PutSurvey: %v", err)
		}
		got, err := s.Survey("DH001")
		if err != nil {
			t.Fatalf("Survey: %v", err)
		}
		if math.Abs(got[1].Azimuth-3*math.Pi/2) > 1e-9 {
			t.Errorf("azimuth not converted to radians: %v", got[1].Azimuth)
		}
		if math.Abs(got[0].Dip-(-math.Pi/2)) > 1e-9 {
			t.Errorf("dip not converted to radians: %v", got[0].Dip)
		}
	})
}

func TestMemoryFilter(t *testing.T) {
	m := NewMemory()
	if err := m.PutCollars(testCollars()); err != nil {
		t.Fatalf("PutCollars: %v", err)
	}
	if err := m.PutSurvey(testSurvey()); err != nil {
		t.Fatalf("PutSurvey: %v", err)
	}

	t.Run("by hole id", func(t *testing.T) {
		sub, err := m.Filter(FilterOptions{Holes: []string{"DH002"}})
		if err != nil {
			t.Fatalf("Filter: %v", err)
		}
		holes, _ := sub.ListHoles()
		if diff := cmp.Diff([]string{"DH002"}, holes); diff != "" {
			t.Errorf("holes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("by total depth", func(t *testing.T) {
		depth := [2]float64{160, 250}
		sub, err := m.Filter(FilterOptions{Depth: &depth})
		if err != nil {
			t.Fatalf("Filter: %v", err)
		}
		holes, _ := sub.ListHoles()
		if diff := cmp.Diff([]string{"DH002", "DH003"}, holes); diff != "" {
			t.Errorf("holes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("by bounding box", func(t *testing.T) {
		bbox := [4]float64{150, 350, 1500, 3500}
		sub, err := m.Filter(FilterOptions{BBox: &bbox})
		if err != nil {
			t.Fatalf("Filter: %v", err)
		}
		holes, _ := sub.ListHoles()
		if diff := cmp.Diff([]string{"DH002", "DH003"}, holes); diff != "" {
			t.Errorf("holes mismatch (-want +got):\n%s", diff)
		}
	})
}
