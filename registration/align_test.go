package registration

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/probemap/scanalign/pointcloud"
	"github.com/probemap/scanalign/spatialmath"
)

func TestAlignEndToEnd(t *testing.T) {
	logger := golog.NewTestLogger(t)

	clouds, err := pointcloud.NewCloudsFromFile("testdata/report.txt", logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(clouds), test.ShouldEqual, 5)

	placed, err := Align(clouds, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(placed), test.ShouldEqual, 5)

	// The first cloud seeds the frame, so it sits at the origin untouched.
	test.That(t, placed[0].Position, test.ShouldResemble, r3.Vector{})
	test.That(t, placed[0].Cloud.Points(), test.ShouldResemble, clouds[0].Points())

	// Every placed cloud shares at least the overlap threshold with the
	// union of the others.
	for i, pl := range placed {
		shared := 0
		for _, p := range pl.Cloud.Points() {
			for j, other := range placed {
				if i != j && other.Cloud.Contains(p) {
					shared++
					break
				}
			}
		}
		test.That(t, shared, test.ShouldBeGreaterThanOrEqualTo, OverlapThreshold)
	}

	test.That(t, UniquePointCount(placed), test.ShouldEqual, 79)
	test.That(t, MaxScannerSpread(placed), test.ShouldEqual, 3621)
}

func TestAlignSingleCloud(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cloud := mustCloud(t, sharedPoints12())

	placed, err := Align([]*pointcloud.Cloud{cloud}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(placed), test.ShouldEqual, 1)
	test.That(t, placed[0].Position, test.ShouldResemble, r3.Vector{})
	test.That(t, UniquePointCount(placed), test.ShouldEqual, cloud.Size())
	test.That(t, MaxScannerSpread(placed), test.ShouldEqual, 0)
}

func TestAlignNoClouds(t *testing.T) {
	_, err := Align(nil, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no scanner clouds")
}

func TestAlignDisconnected(t *testing.T) {
	logger := golog.NewTestLogger(t)

	a := mustCloud(t, sharedPoints12())

	// A cloud with no distance in common with a; the pre-filter alone keeps
	// it from ever matching, so the queue can make no progress.
	far := make([]r3.Vector, 12)
	for i, p := range sharedPoints12() {
		far[i] = r3.Vector{X: p.X * 1000, Y: p.Y * 1000, Z: p.Z * 1000}
	}
	b := mustCloud(t, far)

	_, err := Align([]*pointcloud.Cloud{a, b}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "alignment stalled")
}

func TestAlignChainedOverlap(t *testing.T) {
	// Three scanners in a chain: 0 overlaps 1, 1 overlaps 2, but 0 and 2
	// share nothing. Scanner 2 can only place after scanner 1 has, which
	// forces at least one trip to the back of the queue when 2 is tried
	// first.
	logger := golog.NewTestLogger(t)

	shared01 := sharedPoints12()

	// A second shared group, congruent to nothing in shared01: same Sidon
	// spacing scaled by 3, so its pairwise distances collide with only a
	// handful of shared01's and the pre-filter keeps scanners 0 and 2 apart.
	shared12 := make([]r3.Vector, 0, 12)
	for _, x := range mianChowla {
		shared12 = append(shared12, r3.Vector{X: 7000 + 3*x, Y: -3000, Z: 11})
	}
	shared12 = append(shared12, r3.Vector{X: 7000, Y: -3700, Z: 11})

	cloud0 := mustCloud(t, shared01)

	pos1 := r3.Vector{X: 700, Y: -200, Z: 55}
	o1 := spatialmath.Orientations()[5]
	cloud1 := mustCloud(t, scannerView(append(append([]r3.Vector{}, shared01...), shared12...), pos1, o1))

	pos2 := r3.Vector{X: 6500, Y: -2600, Z: -40}
	o2 := spatialmath.Orientations()[21]
	cloud2 := mustCloud(t, scannerView(shared12, pos2, o2))

	placed, err := Align([]*pointcloud.Cloud{cloud0, cloud2, cloud1}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(placed), test.ShouldEqual, 3)

	positions := map[r3.Vector]bool{}
	for _, pl := range placed {
		positions[pl.Position] = true
	}
	test.That(t, positions[r3.Vector{}], test.ShouldBeTrue)
	test.That(t, positions[pos1], test.ShouldBeTrue)
	test.That(t, positions[pos2], test.ShouldBeTrue)

	test.That(t, UniquePointCount(placed), test.ShouldEqual, 24)
}
