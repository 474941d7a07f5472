// Package pointcloud holds the beacon clouds reported by scanners and the
// geometry derived from them.
//
// Clouds are immutable once constructed. Every derived view of a cloud in a
// different frame is a new cloud, never an in-place mutation.
package pointcloud

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/probemap/scanalign/spatialmath"
)

// Coordinates are kept small enough that squared distances stay exact in an
// int64 and the float64 representation of every coordinate is exact.
const (
	maxPreciseCoord = 1 << 26
	minPreciseCoord = -maxPreciseCoord
)

// Cloud is a set of integer 3D points as reported by a single scanner, in
// that scanner's own coordinate frame.
type Cloud struct {
	points   []r3.Vector
	indexMap map[r3.Vector]int

	// distances maps each squared pairwise distance to the indices of the
	// points appearing in any pair realizing it. Squared integer distances
	// avoid floating-point equality hazards and are invariant under rotation
	// and translation of the whole cloud.
	distances map[int64][]int

	orientedOnce sync.Once
	oriented     [][]r3.Vector
}

// NewCloud builds a cloud from the given points. Points must have integer
// coordinates within the precise range, be distinct, and number at least two
// so that pairwise distances exist.
func NewCloud(points []r3.Vector) (*Cloud, error) {
	if len(points) < 2 {
		return nil, errors.Errorf("cloud needs at least 2 points; got %d", len(points))
	}
	cloud := &Cloud{
		points:    make([]r3.Vector, 0, len(points)),
		indexMap:  make(map[r3.Vector]int, len(points)),
		distances: map[int64][]int{},
	}
	for _, p := range points {
		if err := checkIntegerVector(p); err != nil {
			return nil, err
		}
		if _, ok := cloud.indexMap[p]; ok {
			return nil, errors.Errorf("duplicate point (%v,%v,%v)", p.X, p.Y, p.Z)
		}
		cloud.indexMap[p] = len(cloud.points)
		cloud.points = append(cloud.points, p)
	}
	for i := 0; i < len(cloud.points); i++ {
		for j := i + 1; j < len(cloud.points); j++ {
			d := SquaredDistance(cloud.points[i], cloud.points[j])
			cloud.distances[d] = appendIndex(appendIndex(cloud.distances[d], i), j)
		}
	}
	return cloud, nil
}

func checkIntegerVector(p r3.Vector) error {
	for _, c := range []struct {
		name  string
		value float64
	}{{"x", p.X}, {"y", p.Y}, {"z", p.Z}} {
		if math.Trunc(c.value) != c.value {
			return errors.Errorf("%s component of point (%v,%v,%v) is not an integer", c.name, p.X, p.Y, p.Z)
		}
		if c.value < minPreciseCoord || c.value > maxPreciseCoord {
			return errors.Errorf("%s component of point (%v,%v,%v) out of precise range [%d,%d]",
				c.name, p.X, p.Y, p.Z, minPreciseCoord, maxPreciseCoord)
		}
	}
	return nil
}

func appendIndex(indices []int, idx int) []int {
	for _, existing := range indices {
		if existing == idx {
			return indices
		}
	}
	return append(indices, idx)
}

// SquaredDistance returns the exact squared Euclidean distance between two
// integer-valued points.
func SquaredDistance(a, b r3.Vector) int64 {
	dx := int64(a.X) - int64(b.X)
	dy := int64(a.Y) - int64(b.Y)
	dz := int64(a.Z) - int64(b.Z)
	return dx*dx + dy*dy + dz*dz
}

// Size returns the number of points in the cloud.
func (c *Cloud) Size() int {
	return len(c.points)
}

// Point returns the point at the given index.
func (c *Cloud) Point(i int) r3.Vector {
	return c.points[i]
}

// Points returns the cloud's points. The returned slice is shared; callers
// must not modify it.
func (c *Cloud) Points() []r3.Vector {
	return c.points
}

// Contains reports whether the exact point is in the cloud.
func (c *Cloud) Contains(p r3.Vector) bool {
	_, ok := c.indexMap[p]
	return ok
}

// Distances returns the mapping from squared pairwise distance to the set of
// point indices realizing it. The returned map is shared; callers must treat
// it as read-only.
func (c *Cloud) Distances() map[int64][]int {
	return c.distances
}

// Oriented returns the cloud's points under each of the 24 orientations,
// indexed in parallel with spatialmath.Orientations. Computed on first use
// and cached; the returned slices are shared and read-only.
func (c *Cloud) Oriented() [][]r3.Vector {
	c.orientedOnce.Do(func() {
		table := spatialmath.Orientations()
		c.oriented = make([][]r3.Vector, len(table))
		for i, o := range table {
			variant := make([]r3.Vector, len(c.points))
			for j, p := range c.points {
				variant[j] = o.Apply(p)
			}
			c.oriented[i] = variant
		}
	})
	return c.oriented
}

// Translate returns a new cloud with the given offset added to every point.
func (c *Cloud) Translate(offset r3.Vector) (*Cloud, error) {
	moved := make([]r3.Vector, len(c.points))
	for i, p := range c.points {
		moved[i] = p.Add(offset)
	}
	return NewCloud(moved)
}
