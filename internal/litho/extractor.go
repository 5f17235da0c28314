// Package litho scans lithology interval logs for contacts, the depths at
// which the logged lithology changes down a hole.
package litho

import (
	"errors"
	"fmt"

	"github.com/Loop3D/loopresources/internal/types"
)

// ErrOverlappingIntervals indicates interval rows that overlap or repeat a
// depth range. Overlap resolution is the caller's responsibility, so it is
// reported as a precondition violation rather than silently merged.
var ErrOverlappingIntervals = errors.New("lithology intervals overlap")

// boundaryEpsilon is the tolerance for treating two interval boundaries as
// the same depth.
const boundaryEpsilon = 1e-6

// TiePolicy resolves which boundary wins when a lithology has several
// equally ranked basal-contact candidates. The source data can legitimately
// repeat a unit out of sequence, so the resolution is an explicit parameter
// rather than implicit ordering behavior.
type TiePolicy int

const (
	// TieShallowest keeps the shallowest candidate boundary.
	TieShallowest TiePolicy = iota
	// TieDeepest keeps the deepest candidate boundary.
	TieDeepest
)

// ExtractContacts emits one contact per adjacent pair of intervals whose
// lithology labels differ, at the shared boundary depth. Input must be
// sorted ascending by From. Boundaries across a gap in logging are not
// contacts. Overlapping intervals are ErrOverlappingIntervals.
func ExtractContacts(holeID string, intervals []types.IntervalRow) ([]types.Contact, error) {
	if err := checkSorted(holeID, intervals); err != nil {
		return nil, err
	}

	var contacts []types.Contact
	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		if cur.From-prev.To > boundaryEpsilon {
			continue // logging gap, boundary is not shared
		}
		if prev.Value == cur.Value {
			continue
		}
		contacts = append(contacts, types.Contact{
			HoleID: holeID,
			Depth:  prev.To,
			Above:  prev.Value,
			Below:  cur.Value,
		})
	}
	return contacts, nil
}

// ExtractBasalContacts emits, per lithology, the contact that best
// represents its basal (lowest) boundary given a stratigraphic order from
// top to bottom. A boundary is a candidate basal contact of the unit above
// it when the unit below sits deeper in the order. Among a unit's
// candidates the one whose underlying unit is nearest in the order wins,
// so a boundary that skips intermediate units loses to one that does not;
// remaining depth ties resolve by the TiePolicy. Intervals whose lithology
// is absent from the order are reported as warnings and treated as
// transparent: the units bracketing them meet, with the contact at the top
// of the removed span. A gap in logging still breaks adjacency.
func ExtractBasalContacts(holeID string, intervals []types.IntervalRow, order []string, tie TiePolicy) ([]types.Contact, []string, error) {
	if err := checkSorted(holeID, intervals); err != nil {
		return nil, nil, err
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	var warnings []string
	kept := make([]types.IntervalRow, 0, len(intervals))
	// adjacent[i] reports whether kept[i] follows kept[i-1] through
	// contiguous logging, directly or across skipped intervals.
	adjacent := make([]bool, 0, len(intervals))
	seen := make(map[string]bool)
	contiguous := false
	lastTo := 0.0
	for i, iv := range intervals {
		if i > 0 && iv.From-lastTo > boundaryEpsilon {
			contiguous = false
		}
		lastTo = iv.To
		if _, ok := rank[iv.Value]; !ok {
			if !seen[iv.Value] {
				warnings = append(warnings, fmt.Sprintf("hole %s: lithology %q not in stratigraphic order, skipped", holeID, iv.Value))
				seen[iv.Value] = true
			}
			continue
		}
		kept = append(kept, iv)
		adjacent = append(adjacent, len(kept) > 1 && contiguous)
		contiguous = true
	}

	// Best candidate per lithology: the boundary whose underlying unit is
	// closest below it in the order.
	type candidate struct {
		contact types.Contact
		below   int // order rank of the unit below
	}
	best := make(map[string]candidate)
	for i := 1; i < len(kept); i++ {
		prev, cur := kept[i-1], kept[i]
		if !adjacent[i] || prev.Value == cur.Value {
			continue
		}
		up, down := rank[prev.Value], rank[cur.Value]
		if down <= up {
			// The unit below is stratigraphically above (or equal):
			// the sequence is overturned or repeated here, so this
			// boundary is not a basal contact of prev.Value.
			continue
		}
		c := candidate{
			contact: types.Contact{HoleID: holeID, Depth: prev.To, Above: prev.Value, Below: cur.Value},
			below:   down,
		}
		cur2, ok := best[prev.Value]
		switch {
		case !ok:
			best[prev.Value] = c
		case c.below < cur2.below:
			best[prev.Value] = c
		case c.below == cur2.below:
			if (tie == TieDeepest) == (c.contact.Depth > cur2.contact.Depth) {
				best[prev.Value] = c
			}
		}
	}

	// Report basal contacts in stratigraphic order.
	contacts := make([]types.Contact, 0, len(best))
	for _, name := range order {
		if c, ok := best[name]; ok {
			contacts = append(contacts, c.contact)
		}
	}
	return contacts, warnings, nil
}

func checkSorted(holeID string, intervals []types.IntervalRow) error {
	for i := 1; i < len(intervals); i++ {
		prev, cur := intervals[i-1], intervals[i]
		if cur.From < prev.From {
			return fmt.Errorf("hole %s: intervals not sorted by from-depth at %g: %w", holeID, cur.From, ErrOverlappingIntervals)
		}
		if cur.From < prev.To-boundaryEpsilon {
			return fmt.Errorf("hole %s: interval starting at %g overlaps previous ending at %g: %w", holeID, cur.From, prev.To, ErrOverlappingIntervals)
		}
	}
	return nil
}
