// Package main generates synthetic drillhole CSV exports (collar, survey,
// lithology) for testing the contact pipeline without site data. Holes are
// laid out on a jittered grid, deviate smoothly with depth, and intersect a
// stack of planar dipping units, so the extracted contacts should recover
// the configured dips.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

type unit struct {
	name     string
	topDepth float64 // depth of the unit top at the grid origin
}

func main() {
	holes := flag.Int("holes", 25, "Number of drillholes to generate")
	spacing := flag.Float64("spacing", 100, "Grid spacing between collars in meters")
	depth := flag.Float64("depth", 300, "Hole depth in meters")
	step := flag.Float64("step", 30, "Survey station spacing in meters")
	dip := flag.Float64("layer-dip", 15, "Dip of the synthetic units in degrees")
	azimuth := flag.Float64("layer-azimuth", 90, "Dip direction of the synthetic units in degrees")
	seed := flag.Int64("seed", 1, "Random seed")
	outDir := flag.String("out", ".", "Output directory for the CSV files")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	units := []unit{
		{"cover", 0},
		{"sandstone", 40},
		{"siltstone", 110},
		{"granite", 190},
	}

	// Unit boundaries deepen along the dip direction.
	dipRad := *dip * math.Pi / 180
	azRad := *azimuth * math.Pi / 180
	gradX := math.Tan(dipRad) * math.Sin(azRad)
	gradY := math.Tan(dipRad) * math.Cos(azRad)

	side := int(math.Ceil(math.Sqrt(float64(*holes))))
	var collarRows, surveyRows, geoRows [][]string

	for h := 0; h < *holes; h++ {
		id := fmt.Sprintf("SIM%03d", h+1)
		x := float64(h%side)*(*spacing) + (rng.Float64()-0.5)*(*spacing)*0.2
		y := float64(h/side)*(*spacing) + (rng.Float64()-0.5)*(*spacing)*0.2
		z := 350 + (rng.Float64()-0.5)*10
		collarRows = append(collarRows, []string{id, ftoa(x), ftoa(y), ftoa(z), ftoa(*depth)})

		// Deviated survey: azimuth wanders, dip steepens with depth.
		holeAz := rng.Float64() * 360
		holeDip := -60 - rng.Float64()*25
		for d := 0.0; d <= *depth; d += *step {
			surveyRows = append(surveyRows, []string{
				id, ftoa(d),
				ftoa(math.Mod(holeAz+d*0.02+360, 360)),
				ftoa(math.Max(holeDip-d*0.02, -90)),
			})
		}

		// Lithology intervals from the planar unit tops, with a little
		// boundary noise so the fitted planes are realistic, not exact.
		tops := make([]float64, len(units))
		for i, u := range units {
			tops[i] = u.topDepth + gradX*x + gradY*y + (rng.Float64()-0.5)*2
		}
		for i, u := range units {
			from := math.Max(tops[i], 0)
			to := *depth
			if i+1 < len(units) {
				to = math.Min(tops[i+1], *depth)
			}
			if to <= from {
				continue
			}
			geoRows = append(geoRows, []string{id, ftoa(from), ftoa(to), u.name})
		}
	}

	writeCSV(filepath.Join(*outDir, "collars.csv"),
		[]string{"HOLEID", "EAST", "NORTH", "RL", "ENDDEPTH"}, collarRows)
	writeCSV(filepath.Join(*outDir, "survey.csv"),
		[]string{"HOLEID", "DEPTH", "AZIMUTH", "DIP"}, surveyRows)
	writeCSV(filepath.Join(*outDir, "geology.csv"),
		[]string{"HOLEID", "SAMPFROM", "SAMPTO", "VALUE"}, geoRows)

	log.Printf("generated %d holes: %d survey stations, %d lithology intervals",
		*holes, len(surveyRows), len(geoRows))
}

func writeCSV(path string, header []string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		log.Fatalf("writing %s: %v", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		log.Fatalf("writing %s: %v", path, err)
	}
	log.Printf("wrote %s (%d rows)", path, len(rows))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
