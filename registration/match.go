// Package registration aligns overlapping scanner clouds into a single
// shared coordinate frame.
package registration

import (
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	"github.com/probemap/scanalign/pointcloud"
)

const (
	// OverlapThreshold is the number of points two scans must share, in some
	// orientation and translation, to be considered views of the same region.
	OverlapThreshold = 12

	// sharedPairThreshold is C(12,2), the number of point pairs guaranteed
	// when OverlapThreshold points are shared. The distance pre-filter
	// rejects cloud pairs whose shared-distance lower bound falls below it.
	sharedPairThreshold = 66
)

// Placement is a cloud re-expressed in the reference frame, together with
// the resolved position of its scanner relative to the reference origin.
type Placement struct {
	Cloud    *pointcloud.Cloud
	Position r3.Vector
}

// Match determines whether candidate describes the same physical region as
// fixed, observed from a different position and orientation, with at least
// OverlapThreshold points in common. On success it returns a new placement:
// candidate's points re-expressed in fixed's frame plus the candidate
// scanner's resolved position. A nil placement with a nil error is the
// normal negative result for non-overlapping clouds.
func Match(fixed, candidate *pointcloud.Cloud) (*Placement, error) {
	shared, ok := sharedDistanceKeys(fixed, candidate)
	if !ok {
		return nil, nil
	}

	// For any shared distance, some point of fixed realizing it must
	// coincide with some point of candidate realizing it once candidate is
	// correctly oriented and translated. Which pairing is unknown, so try
	// every reference/anchor combination; a key whose shared distance is
	// coincidental rather than from the true overlap yields nothing, and the
	// next key is tried.
	oriented := candidate.Oriented()
	for _, key := range shared {
		for _, refIdx := range fixed.Distances()[key] {
			ref := fixed.Point(refIdx)
			for _, anchor := range candidate.Distances()[key] {
				idx, count, offset := bestOrientation(fixed, oriented, anchor, ref)
				if count < OverlapThreshold {
					continue
				}
				moved := make([]r3.Vector, len(oriented[idx]))
				for i, p := range oriented[idx] {
					moved[i] = p.Add(offset)
				}
				cloud, err := pointcloud.NewCloud(moved)
				if err != nil {
					return nil, err
				}
				return &Placement{Cloud: cloud, Position: offset}, nil
			}
		}
	}
	// The pre-filter's lower bound is conservative; a pair can pass it and
	// still share fewer than OverlapThreshold points.
	return nil, nil
}

// sharedDistanceKeys runs the distance pre-filter. It sums, over the squared
// distances common to both clouds, a lower bound on the number of shared
// point pairs; below sharedPairThreshold there can be no match and no keys
// are returned. Otherwise the common keys are returned sorted so the anchor
// search is deterministic.
func sharedDistanceKeys(fixed, candidate *pointcloud.Cloud) ([]int64, bool) {
	candDist := candidate.Distances()

	var shared []int64
	pairBound := 0
	for d, fixedIdx := range fixed.Distances() {
		candIdx, ok := candDist[d]
		if !ok {
			continue
		}
		// k indices at one distance cover at least k/2 disjoint pairs.
		bound := len(fixedIdx)
		if len(candIdx) < bound {
			bound = len(candIdx)
		}
		pairBound += bound / 2
		shared = append(shared, d)
	}
	if pairBound < sharedPairThreshold {
		return nil, false
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
	return shared, true
}

// bestOrientation scores all 24 oriented variants of the candidate against
// the fixed cloud, translating each so the anchor point lands on ref, and
// returns the orientation index with the largest point intersection, the
// intersection size, and the translation offset. Scoring reads only
// immutable cloud data, so the orientations are scored in parallel; ties
// resolve to the lowest index so selection stays deterministic.
func bestOrientation(fixed *pointcloud.Cloud, oriented [][]r3.Vector, anchor int, ref r3.Vector) (int, int, r3.Vector) {
	counts := make([]int, len(oriented))
	offsets := make([]r3.Vector, len(oriented))
	var wg sync.WaitGroup
	wg.Add(len(oriented))
	for i := range oriented {
		idx := i
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			variant := oriented[idx]
			offset := ref.Sub(variant[anchor])
			offsets[idx] = offset
			n := 0
			for _, p := range variant {
				if fixed.Contains(p.Add(offset)) {
					n++
				}
			}
			counts[idx] = n
		})
	}
	wg.Wait()

	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return best, counts[best], offsets[best]
}
