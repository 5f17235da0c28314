// Package orientation estimates the spatial orientation of lithological
// contact surfaces from the cloud of desurveyed contact points across all
// holes: a k-d tree gathers the neighbors of each contact, and a
// principal-component plane fit converts each neighbor set to a geological
// dip and azimuth.
package orientation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/Loop3D/loopresources/internal/types"
)

// contactComparable adapts a ContactPoint to the kdtree interfaces.
type contactComparable struct {
	types.ContactPoint
}

// Compare implements kdtree.Comparable.
func (p contactComparable) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(contactComparable)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	default:
		panic("illegal dimension")
	}
}

// Dims implements kdtree.Comparable.
func (p contactComparable) Dims() int { return 3 }

// Distance implements kdtree.Comparable, returning the squared Euclidean
// distance.
func (p contactComparable) Distance(c kdtree.Comparable) float64 {
	q := c.(contactComparable)
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// contactPoints satisfies kdtree.Interface.
type contactPoints []contactComparable

func (p contactPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p contactPoints) Len() int                              { return len(p) }
func (p contactPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }
func (p contactPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(contactPlane{contactPoints: p, Dim: d},
		kdtree.MedianOfRandoms(contactPlane{contactPoints: p, Dim: d}, 100))
}

// contactPlane implements sort.Interface and kdtree.SortSlicer along one
// dimension.
type contactPlane struct {
	contactPoints
	kdtree.Dim
}

func (p contactPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.contactPoints[i].X < p.contactPoints[j].X
	case 1:
		return p.contactPoints[i].Y < p.contactPoints[j].Y
	case 2:
		return p.contactPoints[i].Z < p.contactPoints[j].Z
	default:
		panic("illegal dimension")
	}
}

func (p contactPlane) Slice(start, end int) kdtree.SortSlicer {
	p.contactPoints = p.contactPoints[start:end]
	return p
}

func (p contactPlane) Swap(i, j int) {
	p.contactPoints[i], p.contactPoints[j] = p.contactPoints[j], p.contactPoints[i]
}

// Index is a nearest-neighbor index over desurveyed contact points. It
// owns a copy of the points it was built from and is read-only once built;
// rebuild it when the contact set changes.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// NewIndex builds a balanced k-d tree over contact points.
func NewIndex(points []types.ContactPoint) *Index {
	data := make(contactPoints, len(points))
	for i, p := range points {
		data[i] = contactComparable{p}
	}
	return &Index{
		tree: kdtree.New(data, true),
		n:    len(points),
	}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// NeighborsWithin returns all indexed contact points within radius of p,
// sorted nearest first. The query point itself is part of the result when
// it is indexed.
func (ix *Index) NeighborsWithin(p types.ContactPoint, radius float64) []types.ContactPoint {
	if ix.n == 0 {
		return nil
	}
	// Comparable.Distance is squared Euclidean.
	keeper := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keeper, contactComparable{p})

	type hit struct {
		p types.ContactPoint
		d float64
	}
	hits := make([]hit, 0, keeper.Len())
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		hits = append(hits, hit{c.Comparable.(contactComparable).ContactPoint, c.Dist})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].d < hits[j].d })

	out := make([]types.ContactPoint, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out
}

// DefaultRadius returns the default neighbor search radius for a collar
// set: twice the mean nearest-neighbor horizontal spacing between collars,
// reflecting the drillhole grid density. It is derived per invocation from
// the collars passed in, never cached. Fewer than two collars yield zero.
func DefaultRadius(collars []types.Collar) float64 {
	if len(collars) < 2 {
		return 0
	}
	sum := 0.0
	for i := range collars {
		nearest := math.Inf(1)
		for j := range collars {
			if i == j {
				continue
			}
			dx := collars[i].X - collars[j].X
			dy := collars[i].Y - collars[j].Y
			if d := math.Hypot(dx, dy); d < nearest {
				nearest = d
			}
		}
		sum += nearest
	}
	return 2 * sum / float64(len(collars))
}
