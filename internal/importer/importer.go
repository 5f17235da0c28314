// Package importer loads drillhole tables from CSV files into a store.
// Column names vary between mine sites, so every loader takes an explicit
// column mapping.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/internal/store"
	"github.com/Loop3D/loopresources/internal/types"
)

// ErrMissingColumn indicates a mapped column absent from a CSV header.
var ErrMissingColumn = errors.New("mapped column not found in header")

// Mapping names the CSV columns each field is read from.
type Mapping struct {
	HoleID     string
	X          string
	Y          string
	Z          string
	TotalDepth string
	Depth      string
	Azimuth    string
	Dip        string
	From       string
	To         string
	Value      string
}

// DefaultMapping returns the column names most exports use.
func DefaultMapping() Mapping {
	return Mapping{
		HoleID:     "HOLEID",
		X:          "EAST",
		Y:          "NORTH",
		Z:          "RL",
		TotalDepth: "ENDDEPTH",
		Depth:      "DEPTH",
		Azimuth:    "AZIMUTH",
		Dip:        "DIP",
		From:       "SAMPFROM",
		To:         "SAMPTO",
		Value:      "VALUE",
	}
}

// table reads a whole CSV stream and resolves the mapped columns against
// its header row.
type table struct {
	rows [][]string
	cols map[string]int
}

func readTable(r io.Reader, wanted ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, name := range wanted {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
	}
	return &table{rows: records[1:], cols: cols}, nil
}

func (t *table) str(row []string, col string) string {
	return row[t.cols[col]]
}

func (t *table) num(row []string, col string, line int) (float64, error) {
	v, err := strconv.ParseFloat(row[t.cols[col]], 64)
	if err != nil {
		return 0, fmt.Errorf("line %d, column %q: %w", line, col, err)
	}
	return v, nil
}

// LoadCollars parses a collar table.
func LoadCollars(r io.Reader, m Mapping) ([]types.Collar, error) {
	t, err := readTable(r, m.HoleID, m.X, m.Y, m.Z, m.TotalDepth)
	if err != nil {
		return nil, err
	}
	out := make([]types.Collar, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		c := types.Collar{HoleID: t.str(row, m.HoleID)}
		if c.X, err = t.num(row, m.X, line); err != nil {
			return nil, err
		}
		if c.Y, err = t.num(row, m.Y, line); err != nil {
			return nil, err
		}
		if c.Z, err = t.num(row, m.Z, line); err != nil {
			return nil, err
		}
		if c.TotalDepth, err = t.num(row, m.TotalDepth, line); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadSurvey parses a survey station table. Angles are stored as read;
// degree columns are normalized when the store ingests them.
func LoadSurvey(r io.Reader, m Mapping) ([]types.SurveyRow, error) {
	t, err := readTable(r, m.HoleID, m.Depth, m.Azimuth, m.Dip)
	if err != nil {
		return nil, err
	}
	out := make([]types.SurveyRow, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		s := types.SurveyRow{HoleID: t.str(row, m.HoleID)}
		if s.Depth, err = t.num(row, m.Depth, line); err != nil {
			return nil, err
		}
		if s.Azimuth, err = t.num(row, m.Azimuth, line); err != nil {
			return nil, err
		}
		if s.Dip, err = t.num(row, m.Dip, line); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadIntervals parses an interval log table.
func LoadIntervals(r io.Reader, m Mapping) ([]types.IntervalRow, error) {
	t, err := readTable(r, m.HoleID, m.From, m.To, m.Value)
	if err != nil {
		return nil, err
	}
	out := make([]types.IntervalRow, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		iv := types.IntervalRow{
			HoleID: t.str(row, m.HoleID),
			Value:  t.str(row, m.Value),
		}
		if iv.From, err = t.num(row, m.From, line); err != nil {
			return nil, err
		}
		if iv.To, err = t.num(row, m.To, line); err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// LoadPoints parses a point log table.
func LoadPoints(r io.Reader, m Mapping) ([]types.PointRow, error) {
	t, err := readTable(r, m.HoleID, m.Depth, m.Value)
	if err != nil {
		return nil, err
	}
	out := make([]types.PointRow, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		p := types.PointRow{
			HoleID: t.str(row, m.HoleID),
			Value:  t.str(row, m.Value),
		}
		if p.Depth, err = t.num(row, m.Depth, line); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Files names the CSV sources of one import. Interval and point tables are
// keyed by the table name they are registered under.
type Files struct {
	Collars   string
	Survey    string
	Intervals map[string]string
	Points    map[string]string
}

// Import loads a full set of CSV files into a store. The collar file is
// mandatory; everything else is optional.
func Import(st store.Store, files Files, m Mapping) error {
	if files.Collars == "" {
		return fmt.Errorf("import: no collar file configured")
	}
	collars, err := loadFile(files.Collars, m, LoadCollars)
	if err != nil {
		return fmt.Errorf("collar file %s: %w", files.Collars, err)
	}
	if err := st.PutCollars(collars); err != nil {
		return err
	}
	log.Infof("imported %d collars from %s", len(collars), files.Collars)

	if files.Survey != "" {
		rows, err := loadFile(files.Survey, m, LoadSurvey)
		if err != nil {
			return fmt.Errorf("survey file %s: %w", files.Survey, err)
		}
		if err := st.PutSurvey(rows); err != nil {
			return err
		}
		log.Infof("imported %d survey stations from %s", len(rows), files.Survey)
	}
	for name, path := range files.Intervals {
		rows, err := loadFile(path, m, LoadIntervals)
		if err != nil {
			return fmt.Errorf("interval file %s: %w", path, err)
		}
		if err := st.AddIntervalTable(name, rows); err != nil {
			return err
		}
		log.Infof("imported %d %s intervals from %s", len(rows), name, path)
	}
	for name, path := range files.Points {
		rows, err := loadFile(path, m, LoadPoints)
		if err != nil {
			return fmt.Errorf("point file %s: %w", path, err)
		}
		if err := st.AddPointTable(name, rows); err != nil {
			return err
		}
		log.Infof("imported %d %s points from %s", len(rows), name, path)
	}
	return nil
}

func loadFile[T any](path string, m Mapping, load func(io.Reader, Mapping) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return load(f, m)
}
