// Package spatialmath provides the rigid rotations used to express scans in a
// shared coordinate frame.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Orientation is one of the 24 proper rotations of 3D space that permute and
// sign-flip the coordinate axes. Its matrix has entries in {-1,0,1}, exactly
// one nonzero entry per row and column, and determinant +1; reflections are
// excluded.
type Orientation struct {
	m [3][3]int
}

// Apply rotates v by the orientation.
func (o *Orientation) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: float64(o.m[0][0])*v.X + float64(o.m[0][1])*v.Y + float64(o.m[0][2])*v.Z,
		Y: float64(o.m[1][0])*v.X + float64(o.m[1][1])*v.Y + float64(o.m[1][2])*v.Z,
		Z: float64(o.m[2][0])*v.X + float64(o.m[2][1])*v.Y + float64(o.m[2][2])*v.Z,
	}
}

// Compose returns the orientation equivalent to rotating by first and then
// by o. The rotation group is closed under composition, so the result is
// always an entry of the fixed table.
func (o *Orientation) Compose(first *Orientation) *Orientation {
	var out Orientation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out.m[i][j] += o.m[i][k] * first.m[k][j]
			}
		}
	}
	return &out
}

// RotationMatrix returns the orientation as a dense 3x3 matrix.
func (o *Orientation) RotationMatrix() *mat.Dense {
	out := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, float64(o.m[i][j]))
		}
	}
	return out
}

// Equal reports whether two orientations describe the same rotation.
func (o *Orientation) Equal(other *Orientation) bool {
	return o.m == other.m
}

// NumOrientations is the size of the table returned by Orientations.
const NumOrientations = 24

var orientations = computeOrientations()

// Orientations returns the fixed table of the 24 proper axis rotations.
// Table order is stable within a process, so an index into it can be carried
// around as a selection result.
func Orientations() []*Orientation {
	return orientations
}

// computeOrientations enumerates the 6 axis permutations crossed with the 8
// sign assignments and keeps the half with determinant +1.
func computeOrientations() []*Orientation {
	perms := [6][3]int{
		{0, 1, 2}, {0, 2, 1},
		{1, 0, 2}, {1, 2, 0},
		{2, 0, 1}, {2, 1, 0},
	}
	table := make([]*Orientation, 0, NumOrientations)
	for _, perm := range perms {
		for signs := 0; signs < 8; signs++ {
			var o Orientation
			for row := 0; row < 3; row++ {
				s := 1
				if signs>>row&1 == 1 {
					s = -1
				}
				o.m[row][perm[row]] = s
			}
			if mat.Det(o.RotationMatrix()) > 0 {
				table = append(table, &o)
			}
		}
	}
	return table
}
