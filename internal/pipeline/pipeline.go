// Package pipeline runs the full contact-orientation workflow over a
// drillhole store: reconstruct each hole's trajectory, pull contacts out of
// the lithology log, desurvey them into world coordinates, then fit an
// orientation to every contact from its spatial neighborhood.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Loop3D/loopresources/internal/desurvey"
	"github.com/Loop3D/loopresources/internal/litho"
	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/internal/orientation"
	"github.com/Loop3D/loopresources/internal/store"
	"github.com/Loop3D/loopresources/internal/types"
)

// Config selects the inputs and tuning of one pipeline run.
type Config struct {
	// LithologyTable names the interval table holding lithology logs.
	LithologyTable string

	// StratigraphicOrder lists lithologies from youngest (top) to oldest
	// (bottom). When non-empty, only basal contacts are extracted; when
	// empty every lithology change is a contact.
	StratigraphicOrder []string

	// TiePolicy resolves equally ranked basal-contact candidates.
	TiePolicy litho.TiePolicy

	// DesurveyStep, when positive, resamples each trajectory to stations
	// this many meters apart before contacts are placed on it.
	DesurveyStep float64

	// Radius is the neighbor search radius for plane fitting. Zero means
	// derive it from the collar spacing.
	Radius float64

	// MinNeighbors is the smallest neighbor set a plane is fit to. Zero
	// means orientation.DefaultMinNeighbors.
	MinNeighbors int

	// Workers caps the per-hole and per-contact fan-out. Zero means
	// GOMAXPROCS.
	Workers int
}

// HoleError records a hole that could not be processed. One bad hole never
// aborts the run; callers decide whether partial results are acceptable.
type HoleError struct {
	HoleID string
	Err    error
}

// Result is the output of one pipeline run.
type Result struct {
	RunID      uuid.UUID
	Contacts   []types.ContactPoint
	Oriented   []types.OrientedContact
	Warnings   []string
	HoleErrors []HoleError
	Radius     float64 // the search radius actually used
}

// Run executes the pipeline against a store. Holes are processed
// concurrently; the contact index is built once and shared read-only by the
// concurrent plane fits. Contacts whose neighborhoods are too sparse or
// degenerate for a plane fit are reported as warnings and omitted from the
// oriented set.
func Run(ctx context.Context, st store.Store, cfg Config) (*Result, error) {
	if cfg.LithologyTable == "" {
		return nil, fmt.Errorf("pipeline: no lithology table configured")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	holes, err := st.ListHoles()
	if err != nil {
		return nil, fmt.Errorf("pipeline: listing holes: %w", err)
	}

	res := &Result{RunID: uuid.New()}
	log.Infof("pipeline run %s: %d holes, table %s", res.RunID, len(holes), cfg.LithologyTable)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, holeID := range holes {
		holeID := holeID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points, warnings, err := processHole(st, holeID, cfg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.HoleErrors = append(res.HoleErrors, HoleError{HoleID: holeID, Err: err})
				log.Warnf("hole %s skipped: %v", holeID, err)
				return nil
			}
			res.Contacts = append(res.Contacts, points...)
			res.Warnings = append(res.Warnings, warnings...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res.Contacts, func(i, j int) bool {
		a, b := res.Contacts[i], res.Contacts[j]
		if a.HoleID != b.HoleID {
			return a.HoleID < b.HoleID
		}
		return a.Depth < b.Depth
	})
	sort.Slice(res.HoleErrors, func(i, j int) bool {
		return res.HoleErrors[i].HoleID < res.HoleErrors[j].HoleID
	})

	res.Radius = cfg.Radius
	if res.Radius <= 0 {
		collars, err := st.Collars()
		if err != nil {
			return nil, fmt.Errorf("pipeline: loading collars for radius estimate: %w", err)
		}
		res.Radius = orientation.DefaultRadius(collars)
		log.Debugf("derived neighbor search radius %.1f from %d collars", res.Radius, len(collars))
	}

	// gctx died when the per-hole group finished; the plane-fit stage runs
	// under the caller's context.
	if err := orientContacts(ctx, res, cfg, workers); err != nil {
		return nil, err
	}

	log.Infof("pipeline run %s: %d contacts, %d oriented, %d holes failed",
		res.RunID, len(res.Contacts), len(res.Oriented), len(res.HoleErrors))
	return res, nil
}

// processHole turns one hole's survey and lithology log into desurveyed
// contact points.
func processHole(st store.Store, holeID string, cfg Config) ([]types.ContactPoint, []string, error) {
	collar, err := st.Collar(holeID)
	if err != nil {
		return nil, nil, err
	}
	survey, err := st.Survey(holeID)
	if err != nil {
		return nil, nil, err
	}
	intervals, err := st.IntervalTable(cfg.LithologyTable, holeID)
	if err != nil {
		return nil, nil, err
	}
	if len(intervals) == 0 {
		return nil, nil, nil
	}

	stations := make([]desurvey.Station, len(survey))
	for i, row := range survey {
		stations[i] = desurvey.Station{Depth: row.Depth, Azimuth: row.Azimuth, Dip: row.Dip}
	}
	path, err := desurvey.BuildPath(stations, collar)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DesurveyStep > 0 {
		resampled, err := desurvey.Resample(path, cfg.DesurveyStep)
		if err != nil {
			return nil, nil, err
		}
		if path, err = desurvey.BuildPath(resampled, collar); err != nil {
			return nil, nil, err
		}
	}

	var (
		contacts []types.Contact
		warnings []string
	)
	if len(cfg.StratigraphicOrder) > 0 {
		contacts, warnings, err = litho.ExtractBasalContacts(holeID, intervals, cfg.StratigraphicOrder, cfg.TiePolicy)
	} else {
		contacts, err = litho.ExtractContacts(holeID, intervals)
	}
	if err != nil {
		return nil, warnings, err
	}

	points := make([]types.ContactPoint, 0, len(contacts))
	for _, c := range contacts {
		depth, oor := path.Clamp(c.Depth)
		if oor {
			warnings = append(warnings, fmt.Sprintf("hole %s: contact at %g beyond surveyed depth %g, clamped", holeID, c.Depth, path.MaxDepth()))
		}
		x, y, z := path.PositionAt(depth)
		points = append(points, types.ContactPoint{Contact: c, X: x, Y: y, Z: z})
	}
	return points, warnings, nil
}

// orientContacts fits a plane through every contact's neighborhood, sharing
// one read-only index across the fan-out.
func orientContacts(ctx context.Context, res *Result, cfg Config, workers int) error {
	if len(res.Contacts) == 0 {
		return nil
	}
	index := orientation.NewIndex(res.Contacts)

	oriented := make([]*types.OrientedContact, len(res.Contacts))
	fitWarnings := make([]string, len(res.Contacts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range res.Contacts {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			neighbors := index.NeighborsWithin(c, res.Radius)
			oc, err := orientation.FitPlane(c, neighbors, cfg.MinNeighbors)
			if err != nil {
				fitWarnings[i] = fmt.Sprintf("contact not oriented: %v", err)
				return nil
			}
			oriented[i] = oc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range res.Contacts {
		if oriented[i] != nil {
			res.Oriented = append(res.Oriented, *oriented[i])
		}
		if fitWarnings[i] != "" {
			res.Warnings = append(res.Warnings, fitWarnings[i])
		}
	}
	return nil
}
