package registration

import (
	"math"

	"github.com/golang/geo/r3"
)

// UniquePointCount returns the number of distinct points across all
// placements, by exact integer equality.
func UniquePointCount(placed []Placement) int {
	seen := map[r3.Vector]bool{}
	for _, pl := range placed {
		for _, p := range pl.Cloud.Points() {
			seen[p] = true
		}
	}
	return len(seen)
}

// MaxScannerSpread returns the largest Manhattan distance between any two
// resolved scanner positions.
func MaxScannerSpread(placed []Placement) int {
	spread := 0
	for i := 0; i < len(placed); i++ {
		for j := i + 1; j < len(placed); j++ {
			if d := manhattan(placed[i].Position, placed[j].Position); d > spread {
				spread = d
			}
		}
	}
	return spread
}

func manhattan(a, b r3.Vector) int {
	return int(math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y) + math.Abs(a.Z-b.Z))
}
