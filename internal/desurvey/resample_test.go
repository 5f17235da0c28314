package desurvey

import (
	"errors"
	"math"
	"testing"
)

func TestResampleInvalidStep(t *testing.T) {
	p, err := BuildPath([]Station{{Depth: 0, Dip: -math.Pi / 2}}, collarAt(0, 0, 0, 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, step := range []float64{0, -1} {
		if _, err := Resample(p, step); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("step %v: expected ErrInvalidStep, got %v", step, err)
		}
	}
}

func TestResampleCoverage(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.1, Dip: -1.4},
		{Depth: 50, Azimuth: 0.2, Dip: -1.3},
		{Depth: 100, Azimuth: 0.35, Dip: -1.25},
	}
	p, err := BuildPath(stations, collarAt(0, 0, 0, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("step divides max depth", func(t *testing.T) {
		got, err := Resample(p, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 11 {
			t.Fatalf("expected 11 stations, got %d", len(got))
		}
		if got[0].Depth != 0 || got[10].Depth != 100 {
			t.Errorf("endpoints = (%v, %v), want (0, 100)", got[0].Depth, got[10].Depth)
		}
	})

	t.Run("final station lands on max depth", func(t *testing.T) {
		got, err := Resample(p, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		last := got[len(got)-1]
		if last.Depth != 100 {
			t.Errorf("last resampled depth = %v, want 100", last.Depth)
		}
	})

	t.Run("knot orientations reproduced", func(t *testing.T) {
		got, err := Resample(p, 25)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Depths 0, 50 and 100 are original stations.
		byDepth := map[float64]Station{}
		for _, s := range got {
			byDepth[s.Depth] = s
		}
		for _, want := range stations {
			s, ok := byDepth[want.Depth]
			if !ok {
				t.Fatalf("resample missing station depth %v", want.Depth)
			}
			if s.Azimuth != want.Azimuth || s.Dip != want.Dip {
				t.Errorf("depth %v: orientation (%v, %v), want (%v, %v)",
					want.Depth, s.Azimuth, s.Dip, want.Azimuth, want.Dip)
			}
		}
	})
}

// Resampling a path built from its own resampled stations must reproduce
// the first resample.
func TestResampleIdempotent(t *testing.T) {
	stations := []Station{
		{Depth: 0, Azimuth: 0.05, Dip: -1.45},
		{Depth: 45, Azimuth: 0.18, Dip: -1.32},
		{Depth: 101, Azimuth: 0.31, Dip: -1.27},
	}
	collar := collarAt(0, 0, 0, 101)
	p, err := BuildPath(stations, collar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := Resample(p, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rebuilt, err := BuildPath(first, collar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Resample(rebuilt, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("station counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if math.Abs(first[i].Depth-second[i].Depth) > 1e-9 {
			t.Fatalf("station %d depth %v vs %v", i, first[i].Depth, second[i].Depth)
		}
		if math.Abs(first[i].Azimuth-second[i].Azimuth) > 1e-6 ||
			math.Abs(first[i].Dip-second[i].Dip) > 1e-6 {
			t.Errorf("station %d orientation (%v, %v) vs (%v, %v)",
				i, first[i].Azimuth, first[i].Dip, second[i].Azimuth, second[i].Dip)
		}
	}
}
