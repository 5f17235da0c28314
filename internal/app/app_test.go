package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/pkg/config"
)

// end-to-end: CSV files in, oriented contact CSV out, through a SQLite
// drillhole database.
func TestAppRun(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	collarRows := []string{"HOLEID,EAST,NORTH,RL,ENDDEPTH"}
	surveyRows := []string{"HOLEID,DEPTH,AZIMUTH,DIP"}
	geoRows := []string{"HOLEID,SAMPFROM,SAMPTO,VALUE"}
	coords := [][2]float64{{0, 0}, {100, 0}, {0, 100}, {100, 100}, {50, 50}}
	for i, xy := range coords {
		id := fmt.Sprintf("DH%03d", i+1)
		collarRows = append(collarRows, fmt.Sprintf("%s,%g,%g,0,120", id, xy[0], xy[1]))
		surveyRows = append(surveyRows,
			fmt.Sprintf("%s,0,0,-90", id),
			fmt.Sprintf("%s,120,0,-90", id))
		geoRows = append(geoRows,
			fmt.Sprintf("%s,0,50,sandstone", id),
			fmt.Sprintf("%s,50,120,granite", id))
	}

	collars := write("collars.csv", strings.Join(collarRows, "\n"))
	survey := write("survey.csv", strings.Join(surveyRows, "\n"))
	geology := write("geology.csv", strings.Join(geoRows, "\n"))
	orientedOut := filepath.Join(dir, "oriented.csv")

	configYAML := fmt.Sprintf(`
project:
  lithology-table: geology
  search-radius: 150
input:
  collars: %s
  survey: %s
  intervals:
    geology: %s
storage:
  sqlite:
    path: %s
  outputs:
    contact-set: contacts
    oriented-set: oriented
    oriented-file: %s
`, collars, survey, geology, filepath.Join(dir, "drillholes.db"), orientedOut)
	configPath := write("config.yaml", configYAML)

	log.Init(false)
	a := New(config.NewYAMLProvider(configPath), log.GetSugaredLogger())
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	f, err := os.Open(orientedOut)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 oriented contacts, got %d rows", len(rows))
	}
	for _, row := range rows[1:] {
		dip, err := strconv.ParseFloat(row[10], 64)
		if err != nil {
			t.Fatalf("parsing dip %q: %v", row[10], err)
		}
		if dip > 1e-6 {
			t.Errorf("flat contact exported with dip %g", dip)
		}
	}
}
